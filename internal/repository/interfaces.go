package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/harborguide/internal/calendar"
	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/window"
)

type PortCallRepo interface {
	Create(ctx context.Context, p *domain.PortCall) error
	CreateBatch(ctx context.Context, calls []domain.PortCall) (int, error)
	Count(ctx context.Context) (int, error)
	// LatestDate is the most recent ATB day; false when the store is empty.
	LatestDate(ctx context.Context) (time.Time, bool, error)
	Evaluate(ctx context.Context, measure string, span calendar.Span) (*float64, error)
	Metric(measure string) (window.Metric, error)
	TopVesselsByVariance(ctx context.Context, span calendar.Span, n int) ([]domain.VesselVariance, error)
}
