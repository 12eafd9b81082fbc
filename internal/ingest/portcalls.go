package ingest

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/alexanderramin/harborguide/internal/domain"
)

// portCallFields maps normalized header names (lower case, letters and digits
// only) onto fact fields.
var portCallFields = map[string]string{
	"vessel":             "vessel",
	"vesselname":         "vessel",
	"bu":                 "bu",
	"businessunit":       "bu",
	"atb":                "atb",
	"atblocaltime":       "atb",
	"aayn":               "accurate",
	"arrivalaccurate":    "accurate",
	"arrivalvarianceh":   "variance",
	"arrivalvariance":    "variance",
	"berthtimeh":         "berth",
	"berthhours":         "berth",
	"carbonabatementt":   "carbon",
	"carbontonnes":       "carbon",
	"carbonabatedtonnes": "carbon",
}

var atbLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadPortCallsCSV parses a port-call export. Vessel and ATB columns are
// required; the rest default to zero values.
func ReadPortCallsCSV(r io.Reader) ([]domain.PortCall, error) {
	cr := newCSVReader(r)
	raw, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("port calls: %w", ErrNoHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("reading port calls header: %w", err)
	}

	index := map[string]int{}
	for i, h := range cleanHeader(raw) {
		if field, ok := portCallFields[normalizeHeader(h)]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	for _, required := range []string{"vessel", "atb"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("port calls: missing %s column", required)
		}
	}

	var calls []domain.PortCall
	line := 1
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("port calls line %d: %w", line, err)
		}
		if blankRow(cells) {
			continue
		}
		call, err := parsePortCall(index, cells)
		if err != nil {
			return nil, fmt.Errorf("port calls line %d: %w", line, err)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func parsePortCall(index map[string]int, cells []string) (domain.PortCall, error) {
	get := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	var (
		p   domain.PortCall
		err error
	)
	p.Vessel = get("vessel")
	p.BusinessUnit = get("bu")
	if p.ATB, err = parseATB(get("atb")); err != nil {
		return p, err
	}
	p.ArrivalAccurate = parseFlag(get("accurate"))
	if p.ArrivalVarianceH, err = parseNumber("arrival variance", get("variance")); err != nil {
		return p, err
	}
	if p.BerthHours, err = parseNumber("berth hours", get("berth")); err != nil {
		return p, err
	}
	if p.CarbonTonnes, err = parseNumber("carbon", get("carbon")); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func parseATB(s string) (time.Time, error) {
	for _, layout := range atbLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ATB %q", s)
}

func parseNumber(what, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return f, nil
}

// parseFlag accepts Y/N style flags as well as true/false and 1/0.
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func normalizeHeader(h string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
