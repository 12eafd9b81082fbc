// Package window compares a metric across the current and prior calendar
// window anchored at the latest observed date.
package window

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/harborguide/internal/calendar"
)

type Kind string

const (
	WoW Kind = "WoW"
	MTD Kind = "MTD"
)

// ErrUnknownKind is returned for a kind other than WoW or MTD.
var ErrUnknownKind = errors.New("unknown window kind")

// ParseKind accepts the canonical spelling of a kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch {
	case strings.EqualFold(s, string(WoW)):
		return WoW, nil
	case strings.EqualFold(s, string(MTD)):
		return MTD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Metric evaluates one measurable quantity over an inclusive span. A nil
// result means the span had no data.
type Metric interface {
	Evaluate(ctx context.Context, span calendar.Span) (*float64, error)
}

// MetricFunc adapts a function to Metric.
type MetricFunc func(ctx context.Context, span calendar.Span) (*float64, error)

func (f MetricFunc) Evaluate(ctx context.Context, span calendar.Span) (*float64, error) {
	return f(ctx, span)
}

// Comparison holds a metric evaluated over the current and previous spans.
// Err collects evaluation failures, which leave the matching value nil.
type Comparison struct {
	Kind         Kind
	Current      *float64
	Previous     *float64
	CurrentSpan  calendar.Span
	PreviousSpan calendar.Span
	Err          error
}

// Spans derives the current and previous spans for kind anchored at latest.
//
// WoW compares the Monday..Sunday week containing latest with the week before.
// MTD compares the first of the month through latest with the same number of
// days from the first of the prior month. The previous span is not clamped to
// the prior month, so 2025-03-31 compares against 2025-02-01..2025-03-03.
func Spans(kind Kind, latest time.Time) (current, previous calendar.Span, err error) {
	switch kind {
	case WoW:
		current = calendar.NewSpan(calendar.WeekStart(latest), calendar.WeekEnd(latest))
		return current, current.Shift(-7), nil
	case MTD:
		start := calendar.MonthStart(latest)
		current = calendar.NewSpan(start, latest)
		prevStart := calendar.MonthStart(calendar.AddDays(start, -1))
		prevEnd := calendar.AddDays(prevStart, calendar.DaysBetween(start, latest))
		return current, calendar.NewSpan(prevStart, prevEnd), nil
	default:
		return calendar.Span{}, calendar.Span{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Compute evaluates metric once per span. Only an unknown kind is returned as
// an error; evaluation failures are reported through Comparison.Err.
func Compute(ctx context.Context, kind Kind, metric Metric, latest time.Time) (Comparison, error) {
	cur, prev, err := Spans(kind, latest)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{Kind: kind, CurrentSpan: cur, PreviousSpan: prev}
	var errs []error

	c.Current, err = metric.Evaluate(ctx, cur)
	if err != nil {
		c.Current = nil
		errs = append(errs, fmt.Errorf("evaluating %s current %s: %w", kind, cur, err))
	}
	c.Previous, err = metric.Evaluate(ctx, prev)
	if err != nil {
		c.Previous = nil
		errs = append(errs, fmt.Errorf("evaluating %s previous %s: %w", kind, prev, err))
	}
	c.Err = errors.Join(errs...)
	return c, nil
}
