package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBudget renders how much of a character budget is used, like
// [████░░░░] 45% of 80000. The bar turns yellow past 75% and red past 95%.
func RenderBudget(used, budget, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if budget > 0 {
		pct = min(max(float64(used)/float64(budget), 0), 1)
	}

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct > 0.95:
		style = StyleRed
	case pct > 0.75:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%% of %d", style.Render(bar), pct*100, budget)
}
