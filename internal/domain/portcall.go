package domain

import (
	"fmt"
	"strings"
	"time"
)

// PortCall is one vessel call recorded in the fact store.
type PortCall struct {
	ID                string
	Vessel            string
	BusinessUnit      string
	ATB               time.Time
	ArrivalAccurate   bool
	ArrivalVarianceH  float64
	BerthHours        float64
	CarbonTonnes     float64
}

// Validate checks the fields required by the fact store.
func (p PortCall) Validate() error {
	if strings.TrimSpace(p.Vessel) == "" {
		return fmt.Errorf("port call vessel is required")
	}
	if p.ATB.IsZero() {
		return fmt.Errorf("port call %q: ATB is required", p.Vessel)
	}
	if p.BerthHours < 0 {
		return fmt.Errorf("port call %q: berth hours must be >= 0, got %v", p.Vessel, p.BerthHours)
	}
	return nil
}

// VesselVariance is the average arrival variance of one vessel over a span.
type VesselVariance struct {
	Vessel    string  `json:"vessel"`
	VarianceH float64 `json:"variance_h"`
	Calls     int     `json:"calls"`
}
