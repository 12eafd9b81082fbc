// Package calendar provides date arithmetic on UTC calendar days.
package calendar

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// AddDays shifts a day by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns b - a in whole days.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// WeekStart returns the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return AddDays(t, -offset)
}

// WeekEnd returns the Sunday of t's ISO week.
func WeekEnd(t time.Time) time.Time {
	return AddDays(WeekStart(t), 6)
}

func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return Date(y, m, 1)
}

// Span is an inclusive range of calendar days.
type Span struct {
	Start time.Time
	End   time.Time
}

// NewSpan normalizes both ends to days.
func NewSpan(start, end time.Time) Span {
	return Span{Start: Day(start), End: Day(end)}
}

// Days is the inclusive length of the span.
func (s Span) Days() int {
	return DaysBetween(s.Start, s.End) + 1
}

// Shift moves both ends by n days.
func (s Span) Shift(n int) Span {
	return Span{Start: AddDays(s.Start, n), End: AddDays(s.End, n)}
}

// EndExclusive is the first day after the span.
func (s Span) EndExclusive() time.Time {
	return AddDays(s.End, 1)
}

func (s Span) String() string {
	return s.Start.Format(DateLayout) + ".." + s.End.Format(DateLayout)
}
