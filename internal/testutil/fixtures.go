package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/harborguide/internal/domain"
)

type PortCallOption func(*domain.PortCall)

func WithATB(t time.Time) PortCallOption {
	return func(p *domain.PortCall) { p.ATB = t }
}

func WithAccurate(ok bool) PortCallOption {
	return func(p *domain.PortCall) { p.ArrivalAccurate = ok }
}

func WithVariance(h float64) PortCallOption {
	return func(p *domain.PortCall) { p.ArrivalVarianceH = h }
}

func WithBerthHours(h float64) PortCallOption {
	return func(p *domain.PortCall) { p.BerthHours = h }
}

func WithCarbon(t float64) PortCallOption {
	return func(p *domain.PortCall) { p.CarbonTonnes = t }
}

func WithBusinessUnit(bu string) PortCallOption {
	return func(p *domain.PortCall) { p.BusinessUnit = bu }
}

// NewTestPortCall returns a valid accurate call at 08:00 UTC on 2025-10-15.
func NewTestPortCall(vessel string, opts ...PortCallOption) domain.PortCall {
	p := domain.PortCall{
		ID:              uuid.New().String(),
		Vessel:          vessel,
		BusinessUnit:    "APMT",
		ATB:             time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC),
		ArrivalAccurate: true,
		BerthHours:      24,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Day returns 08:00 UTC on the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 8, 0, 0, 0, time.UTC)
}

// WeekOfCalls returns n calls for vessel spread one per day from start.
func WeekOfCalls(vessel string, start time.Time, n int, opts ...PortCallOption) []domain.PortCall {
	out := make([]domain.PortCall, n)
	for i := range out {
		all := append([]PortCallOption{WithATB(start.AddDate(0, 0, i))}, opts...)
		out[i] = NewTestPortCall(vessel, all...)
	}
	return out
}
