// Package kpi shapes window comparisons into rounded, null-safe KPI packets.
package kpi

import (
	"fmt"
	"math"
	"strconv"

	"github.com/alexanderramin/harborguide/internal/window"
)

// DefaultPrecision is the number of decimals kept in packets.
const DefaultPrecision = 2

// Packet is the external shape of one KPI.
type Packet struct {
	Value  *float64    `json:"value"`
	Delta  *float64    `json:"delta"`
	Unit   string      `json:"unit"`
	Window window.Kind `json:"window"`
}

// Package rounds current to DefaultPrecision and sets Delta only when both
// inputs are present.
func Package(current, previous *float64, unit string, kind window.Kind) Packet {
	return PackageWithPrecision(current, previous, unit, kind, DefaultPrecision)
}

func PackageWithPrecision(current, previous *float64, unit string, kind window.Kind, decimals int) Packet {
	p := Packet{Unit: unit, Window: kind}
	cur := finite(current)
	if cur == nil {
		return p
	}
	p.Value = ptr(Round(*cur, decimals))
	if prev := finite(previous); prev != nil {
		delta := Round(*cur-*prev, decimals)
		if !math.IsNaN(delta) && !math.IsInf(delta, 0) {
			p.Delta = ptr(delta)
		}
	}
	return p
}

// String renders "72.3% (-1.7 WoW)". A null value renders "n/a" and a null
// delta is omitted.
func (p Packet) String() string {
	if p.Value == nil {
		return "n/a"
	}
	s := FormatValue(*p.Value, p.Unit)
	if p.Delta != nil {
		s += fmt.Sprintf(" (%s %s)", FormatDelta(*p.Delta), p.Window)
	}
	return s
}

// FormatValue renders v with its unit; percentages are attached directly.
func FormatValue(v float64, unit string) string {
	n := strconv.FormatFloat(v, 'f', -1, 64)
	switch unit {
	case "":
		return n
	case "%":
		return n + "%"
	}
	return n + " " + unit
}

// FormatDelta renders a signed delta such as "+0" or "-1.7".
func FormatDelta(d float64) string {
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if d >= 0 {
		return "+" + s
	}
	return s
}

// FromComparison packages a window comparison.
func FromComparison(c window.Comparison, unit string) Packet {
	return Package(c.Current, c.Previous, unit, c.Kind)
}

// Round rounds x to decimals places with ties away from zero. Ties are
// detected on the scaled value with a small tolerance so that inputs such as
// 1.005, stored as 1.00499999..., still round up.
func Round(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow10(decimals)
	s := x * p
	whole := math.Trunc(s)
	if math.Abs(math.Abs(s-whole)-0.5) < 1e-9 {
		return (whole + math.Copysign(1, s)) / p
	}
	return math.Round(s) / p
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

func ptr(v float64) *float64 { return &v }
