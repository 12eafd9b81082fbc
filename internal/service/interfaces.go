package service

import (
	"context"
	"io"

	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/kpi"
)

// CardsResult is the card digest for one source key.
type CardsResult struct {
	SourceKey  string
	SnapshotID string
	// Hit is true when the keyed snapshot served the request rather than the
	// global fallback.
	Hit      bool
	Text     string
	Included int
	Total    int
}

type ContextService interface {
	// Ingest stores snap under sourceKey and makes it the global fallback.
	Ingest(ctx context.Context, sourceKey string, snap *domain.Snapshot) error
	// LoadWorkbook reads every sheet of path into a snapshot under
	// domain.SnapshotKeyWorkbook.
	LoadWorkbook(ctx context.Context, path string) (*domain.Snapshot, error)
	Cards(ctx context.Context, sourceKey string) (*CardsResult, error)
}

// KPISnapshot is the KPI bundle plus the vessels with the largest mean
// arrival variance in the current week.
type KPISnapshot struct {
	kpi.Bundle
	TopVessels []domain.VesselVariance `json:"topVessels"`
}

type KPIService interface {
	Snapshot(ctx context.Context) (*KPISnapshot, error)
}

// ImportResult holds the outcome of a fact import.
type ImportResult struct {
	Inserted int
	Total    int
}

type FactService interface {
	Import(ctx context.Context, calls []domain.PortCall) (*ImportResult, error)
	ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error)
}
