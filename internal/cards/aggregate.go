package cards

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/harborguide/internal/domain"
)

// Aggregate summarizes one all-numeric column.
type Aggregate struct {
	Column string
	Count  int
	Sum    float64
}

// Mean returns the arithmetic mean and false when Count is zero.
func (a Aggregate) Mean() (float64, bool) {
	if a.Count == 0 {
		return 0, false
	}
	return a.Sum / float64(a.Count), true
}

func (a Aggregate) String() string {
	mean := "NA"
	if m, ok := a.Mean(); ok {
		mean = strconv.FormatFloat(m, 'f', 2, 64)
	}
	return fmt.Sprintf("%s{count=%d, sum=%s, mean=%s}",
		a.Column, a.Count, strconv.FormatFloat(a.Sum, 'f', -1, 64), mean)
}

// aggregates returns, in column order, one Aggregate for every column whose
// non-null values are all numeric. A single non-numeric value excludes the column.
func aggregates(rows []domain.Row, cols []string) []Aggregate {
	var out []Aggregate
	for _, c := range cols {
		agg := Aggregate{Column: c}
		numeric := true
		for _, r := range rows {
			switch v := domain.NormalizeValue(r.Get(c)).(type) {
			case nil:
			case float64:
				agg.Count++
				agg.Sum += v
			default:
				numeric = false
			}
			if !numeric {
				break
			}
		}
		if numeric {
			out = append(out, agg)
		}
	}
	return out
}
