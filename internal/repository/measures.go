package repository

import (
	"fmt"
	"sort"
	"strings"
)

// Measure names accepted by Evaluate.
const (
	MeasureArrivalAccuracyPct = "arrival_accuracy_pct"
	MeasureWithin4hPct        = "within_4h_pct"
	MeasureAvgBerthHours      = "avg_berth_h"
	MeasureCarbonTonnes       = "carbon_tonnes"
	MeasureArrivalVarianceH   = "arrival_variance_h"
)

// measureExprs maps measure names to aggregate SQL. Only these fragments are
// ever interpolated into queries. Every expression yields NULL over no rows.
var measureExprs = map[string]string{
	MeasureArrivalAccuracyPct: `100.0 * AVG(arrival_accurate)`,
	MeasureWithin4hPct:        `100.0 * AVG(CASE WHEN ABS(arrival_variance_h) <= 4 THEN 1.0 ELSE 0.0 END)`,
	MeasureAvgBerthHours:      `AVG(berth_hours)`,
	MeasureCarbonTonnes:       `SUM(carbon_tonnes)`,
	MeasureArrivalVarianceH:   `AVG(arrival_variance_h)`,
}

// unknownMeasure reports a measure that has no SQL expression, naming the
// supported ones.
func unknownMeasure(measure string) error {
	return fmt.Errorf("%w: %q (supported: %s)", ErrUnknownMeasure, measure, strings.Join(Measures(), ", "))
}

// Measures lists the supported measure names in sorted order.
func Measures() []string {
	out := make([]string, 0, len(measureExprs))
	for k := range measureExprs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
