package repository

import (
	"time"

	"github.com/alexanderramin/harborguide/internal/calendar"
)

// atbLayout is sortable as text so span filters can compare strings.
const atbLayout = "2006-01-02 15:04:05"

// spanArgs returns the [start, end+1day) bounds of span as query arguments.
func spanArgs(span calendar.Span) (string, string) {
	return span.Start.Format(calendar.DateLayout), span.EndExclusive().Format(calendar.DateLayout)
}

func parseATB(s string) (time.Time, error) {
	if t, err := time.Parse(atbLayout, s); err == nil {
		return t, nil
	}
	return calendar.ParseDate(s)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
