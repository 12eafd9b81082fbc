package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/harborguide/internal/service"
)

const lightSystemPrompt = `You are HarborGuide, a port operations insights assistant. You do NOT have live KPIs in this mode. ` +
	`Answer clearly and actionably around visibility, agility, efficiency and sustainability. ` +
	`Offer hypotheses, ask 1 follow-up if truly necessary, and finish with next steps.`

const analystSystemPrompt = `You are a KPI/operations analyst. Use the provided data cards (from a fixed Excel workbook or uploaded report visuals).
Be quantitative and concise. If data is partial or ambiguous, say so and state assumptions.
Suggest brief, actionable next steps when relevant.`

const briefingSystemPrompt = `You are **HarborGuide**, a port operations insights copilot. Use ONLY the provided KPIs/tables.

Output exactly three sections:

## Executive Summary
- 3-6 concise bullets with business wording and concrete numbers from input.

## Drivers/Anomalies (Hypotheses)
- 2-3 likely drivers. Clearly mark as hypotheses if not definitive.

## Next Steps
- 2-3 actions aligned to Visibility, Agility and Sustainability.
- Each action must include an owner and a time horizon (e.g., "Ops Lead: share ETA variance watchlist, today").

If data is insufficient, state exactly what additional view/table you need (e.g., "Top 5 vessels by ETA variance (WoW)").
Keep answers terse, non-technical, and actionable.`

func buildLightUserPrompt(question string) string {
	return "Question: " + question + "\n\n" +
		"Context: No live KPIs are available in this mode. Provide general guidance and concrete actions."
}

func buildAnalystUserPrompt(question, cards string) string {
	var b strings.Builder
	b.WriteString("[QUESTION]\n")
	b.WriteString(question)
	b.WriteString("\n\n[DATA CARDS]\n")
	b.WriteString(cards)
	return b.String()
}

func buildBriefingUserPrompt(question string, snap *service.KPISnapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding kpis for prompt: %w", err)
	}
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nKPIs and top vessels by arrival variance (current week):\n")
	b.Write(data)
	return b.String(), nil
}
