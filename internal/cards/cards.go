// Package cards renders tabular blocks into bounded text digests for prompts.
package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/harborguide/internal/domain"
)

// NoData is returned whenever no card can be emitted.
const NoData = "(no data available)"

const (
	DefaultMaxColumns = 8
	DefaultSampleRows = 10
	DefaultMaxChars   = 80000

	separator = "\n"
)

// ErrInvalidBudget is returned for a character budget <= 0.
var ErrInvalidBudget = errors.New("card budget must be positive")

// Digest is the result of composing cards under a budget.
type Digest struct {
	Text     string
	Included int
	Total    int
}

// Truncated reports whether some blocks were left out.
func (d Digest) Truncated() bool {
	return d.Included < d.Total
}

// Builder renders blocks as text cards, keeping at most MaxColumns columns and
// SampleRows sample rows per card.
type Builder struct {
	MaxColumns int
	SampleRows int
}

// NewBuilder returns a Builder with non-positive limits replaced by defaults.
func NewBuilder(maxColumns, sampleRows int) Builder {
	return Builder{
		MaxColumns: domain.IntWithDefault(maxColumns, DefaultMaxColumns),
		SampleRows: domain.IntWithDefault(sampleRows, DefaultSampleRows),
	}
}

// Build renders blocks with the default limits.
func Build(blocks []domain.TabularBlock, maxChars int) (string, error) {
	d, err := NewBuilder(0, 0).Compose(blocks, maxChars)
	if err != nil {
		return "", err
	}
	return d.Text, nil
}

// Compose appends one card per block, in order, while the running length
// (cards plus separators, counted in runes) stays within maxChars. The first
// card that does not fit ends the fold; later blocks are never considered.
func (b Builder) Compose(blocks []domain.TabularBlock, maxChars int) (Digest, error) {
	if maxChars <= 0 {
		return Digest{}, fmt.Errorf("%w: got %d", ErrInvalidBudget, maxChars)
	}
	d := Digest{Text: NoData, Total: len(blocks)}

	var out strings.Builder
	length := 0
	for _, block := range blocks {
		card := b.Card(block)
		cost := utf8.RuneCountInString(card)
		if d.Included > 0 {
			cost += utf8.RuneCountInString(separator)
		}
		if length+cost > maxChars {
			break
		}
		if d.Included > 0 {
			out.WriteString(separator)
		}
		out.WriteString(card)
		length += cost
		d.Included++
	}

	if d.Included > 0 {
		d.Text = out.String()
	}
	return d, nil
}

// Card renders a single block.
func (b Builder) Card(block domain.TabularBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s: %s ===", block.Kind.Label(), block.Name)

	if len(block.Rows) == 0 {
		sb.WriteString("\n(empty)")
		return sb.String()
	}

	cols := block.Columns
	if len(cols) > b.maxColumns() {
		cols = cols[:b.maxColumns()]
	}

	sb.WriteString("\nColumns: ")
	sb.WriteString(strings.Join(cols, ", "))

	sb.WriteString("\nAggregates: ")
	aggs := aggregates(block.Rows, cols)
	if len(aggs) == 0 {
		sb.WriteString("(none)")
	} else {
		parts := make([]string, len(aggs))
		for i, a := range aggs {
			parts[i] = a.String()
		}
		sb.WriteString(strings.Join(parts, " | "))
	}

	n := min(len(block.Rows), b.sampleRows())
	fmt.Fprintf(&sb, "\nSample (first %d rows):", n)
	for i, row := range block.Rows[:n] {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, projectRow(row, cols))
	}
	return sb.String()
}

func (b Builder) maxColumns() int {
	return domain.IntWithDefault(b.MaxColumns, DefaultMaxColumns)
}

func (b Builder) sampleRows() int {
	return domain.IntWithDefault(b.SampleRows, DefaultSampleRows)
}

// projectRow renders the row as a JSON object with keys in column order.
func projectRow(row domain.Row, cols []string) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(c))
		sb.WriteString(": ")
		sb.WriteString(scalar(row.Get(c)))
	}
	sb.WriteByte('}')
	return sb.String()
}

func scalar(v any) string {
	data, err := json.Marshal(domain.NormalizeValue(v))
	if err != nil {
		return "null"
	}
	return string(data)
}
