// Package ingest turns workbooks, CSV text and JSON records into tabular
// blocks and port-call facts.
package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoHeader is returned when a source has no header row.
var ErrNoHeader = errors.New("no header row")

// ParseValue converts a cell to nil, float64, bool or string. Blank cells are
// nil; numbers are tried before booleans so "1" stays numeric.
func ParseValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// cleanHeader trims cells, strips quotes, names blank cells column_N and
// suffixes duplicates so every column key is unique.
func cleanHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		h = strings.TrimPrefix(h, "\ufeff")
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			seen[h] = 1
		}
		out[i] = h
	}
	return out
}

// recordFromCells maps cells onto header. Cells beyond the header are kept
// under positional keys so the block builder can flag the row as partial.
func recordFromCells(header, cells []string) map[string]any {
	rec := make(map[string]any, len(cells))
	for i, c := range cells {
		key := fmt.Sprintf("column_%d", i+1)
		if i < len(header) {
			key = header[i]
		} else if strings.TrimSpace(c) == "" {
			continue
		}
		rec[key] = ParseValue(c)
	}
	return rec
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
