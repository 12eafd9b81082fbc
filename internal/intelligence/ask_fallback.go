package intelligence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/harborguide/internal/cards"
	"github.com/alexanderramin/harborguide/internal/kpi"
	"github.com/alexanderramin/harborguide/internal/service"
)

// StubAnswer is the fixed guidance returned in stub mode.
const StubAnswer = `### Executive Summary
- I don't have live KPIs loaded, but here's a concise readout and suggested actions for the network.

### What I'd look at
- Arrival accuracy trend (WoW/MTD), within-4h rate, avg berth time, and carbon abatement.
- Top vessels / lanes with schedule variance; terminals with recurring delays.

### Likely drivers (hypotheses)
- Berth conflicts and tidal clustering causing crane idling.
- Bunker delays or weather around key straits.
- Yard imbalance increasing horizontal transport cycle times.

### Recommended next steps
1) **Tactical**: Nudge ETA updates from carriers with low accuracy; tighten cut-off rules on lanes >4h variance.
2) **Ops**: Rebalance yard blocks and assign extra AGVs on the two highest-pressure berths during peaks.
3) **Network**: Suggest alternative transhipment windows to smooth arrival banks (within 24-48h).
4) **Sustainability**: Offer slow-steaming windows that preserve on-time arrival and carbon targets.

> Set ` + "`HARBOR_ASK_MODE=kpis`" + ` to ground answers in live KPIs.`

// NoDataAnswer is returned by llm_only mode when no model is reachable.
const NoDataAnswer = `### HarborGuide (No live KPIs)
- I'm operating without live data. Here's a structured response you can use for decisions.

**What to review next:** arrival accuracy, within-4h rate, avg berth, carbon.
**Likely drivers:** berth conflicts, weather, port congestion, yard imbalance, data latency.
**Actions:** tighten ETA governance; smooth arrival banks; rebalance yard/AGVs; propose slow-steaming slots; track impact weekly.`

// DeterministicCardsAnswer summarizes the card headers and aggregates when no
// model can read the cards.
func DeterministicCardsAnswer(res *service.CardsResult) string {
	var b strings.Builder
	b.WriteString("### Data overview (model unavailable)\n")
	if res == nil || res.Text == cards.NoData || res.Included == 0 {
		b.WriteString("- No data is loaded yet. Upload report visuals or configure a workbook, then ask again.")
		return b.String()
	}

	fmt.Fprintf(&b, "- %d of %d data blocks are available.\n", res.Included, res.Total)
	for _, line := range strings.Split(res.Text, "\n") {
		switch {
		case strings.HasPrefix(line, "=== "):
			b.WriteString("\n**")
			b.WriteString(strings.Trim(line, "= "))
			b.WriteString("**\n")
		case strings.HasPrefix(line, "Aggregates: ") && line != "Aggregates: (none)":
			for _, agg := range strings.Split(strings.TrimPrefix(line, "Aggregates: "), " | ") {
				b.WriteString("- ")
				b.WriteString(agg)
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// DeterministicBriefing renders the KPI snapshot in the three-section briefing
// layout without a model.
func DeterministicBriefing(snap *service.KPISnapshot) string {
	var b strings.Builder
	b.WriteString("## Executive Summary\n")
	if snap == nil || snap.AsOf == "" {
		b.WriteString("- No port calls are loaded; KPIs are unavailable.\n")
	} else {
		fmt.Fprintf(&b, "- As of %s.\n", snap.AsOf)
		for _, name := range snap.Names() {
			fmt.Fprintf(&b, "- %s: %s\n", kpi.Label(name), snap.KPIs[name])
		}
	}

	b.WriteString("\n## Drivers/Anomalies (Hypotheses)\n")
	if snap == nil || len(snap.TopVessels) == 0 {
		b.WriteString("- Need: Top 5 vessels by ETA variance (WoW).\n")
	} else {
		for _, v := range snap.TopVessels {
			fmt.Fprintf(&b, "- %s: mean arrival variance %s h over %d call(s) this week.\n",
				v.Vessel, strconv.FormatFloat(kpi.Round(v.VarianceH, 2), 'f', -1, 64), v.Calls)
		}
	}

	b.WriteString("\n## Next Steps\n")
	b.WriteString("- Ops Lead: share the ETA variance watchlist with carriers, today.\n")
	b.WriteString("- Berth Planner: review berth allocation for the vessels above, this week.")
	return b.String()
}
