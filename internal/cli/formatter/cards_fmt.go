package formatter

import (
	"fmt"
	"unicode/utf8"

	"github.com/alexanderramin/harborguide/internal/cards"
)

const budgetBarWidth = 20

// FormatCardsFooter summarizes how many blocks made it into a digest and how
// much of the budget they use.
func FormatCardsFooter(text string, included, total, budget int) string {
	used := 0
	if text != cards.NoData {
		used = utf8.RuneCountInString(text)
	}
	summary := fmt.Sprintf("%d of %s included", included, Plural(total, "block"))
	if included < total {
		summary += StyleYellow.Render(" (truncated)")
	}
	return Dim(summary) + "  " + RenderBudget(used, budget, budgetBarWidth)
}
