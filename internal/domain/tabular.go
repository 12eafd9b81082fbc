package domain

import (
	"fmt"
	"math"
)

// Row is one record of a TabularBlock projected onto the block's columns.
// Partial is set when the source record did not carry exactly the block's
// column set.
type Row struct {
	Values  map[string]any
	Partial bool
}

// Get returns the value stored under col, or nil.
func (r Row) Get(col string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[col]
}

// TabularBlock is one named table (a workbook sheet or an uploaded visual).
type TabularBlock struct {
	Kind    BlockKind
	Name    string
	Columns []string
	Rows    []Row
}

// VisualName joins a report page and visual title into a block name.
func VisualName(page, visual string) string {
	return fmt.Sprintf("%s / %s", CoalesceStr(page, "Page"), CoalesceStr(visual, "Visual"))
}

// NewTabularBlock builds a block from an ordered header and records keyed by
// column. Keys absent from a record default to nil; keys outside the header
// are dropped. Either case tags the row as partial.
func NewTabularBlock(kind BlockKind, name string, header []string, records []map[string]any) TabularBlock {
	cols := make([]string, len(header))
	copy(cols, header)

	known := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		known[c] = struct{}{}
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{Values: make(map[string]any, len(cols))}
		for _, c := range cols {
			v, ok := rec[c]
			if !ok {
				row.Partial = true
			}
			row.Values[c] = NormalizeValue(v)
		}
		for k := range rec {
			if _, ok := known[k]; !ok {
				row.Partial = true
				break
			}
		}
		rows = append(rows, row)
	}

	return TabularBlock{Kind: kind, Name: name, Columns: cols, Rows: rows}
}

// Clone returns a deep copy of the block.
func (b TabularBlock) Clone() TabularBlock {
	out := TabularBlock{Kind: b.Kind, Name: b.Name}
	if b.Columns != nil {
		out.Columns = append([]string(nil), b.Columns...)
	}
	if b.Rows != nil {
		out.Rows = make([]Row, len(b.Rows))
		for i, r := range b.Rows {
			vals := make(map[string]any, len(r.Values))
			for k, v := range r.Values {
				vals[k] = v
			}
			out.Rows[i] = Row{Values: vals, Partial: r.Partial}
		}
	}
	return out
}

// PartialRows counts rows tagged as partial.
func (b TabularBlock) PartialRows() int {
	n := 0
	for _, r := range b.Rows {
		if r.Partial {
			n++
		}
	}
	return n
}

// NormalizeValue maps an arbitrary decoded value onto nil, float64, string or bool.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case float32:
		return NormalizeValue(float64(x))
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case string:
		return x
	case bool:
		return x
	default:
		return fmt.Sprint(x)
	}
}
