package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/harborguide/internal/calendar"
	"github.com/alexanderramin/harborguide/internal/db"
	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/window"
)

// SQLitePortCallRepo implements PortCallRepo on the port_calls table.
type SQLitePortCallRepo struct {
	db db.DBTX
}

func NewSQLitePortCallRepo(conn db.DBTX) *SQLitePortCallRepo {
	return &SQLitePortCallRepo{db: conn}
}

const portCallColumns = `id, vessel, business_unit, atb, arrival_accurate, arrival_variance_h, berth_hours, carbon_tonnes`

func (r *SQLitePortCallRepo) Create(ctx context.Context, p *domain.PortCall) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `INSERT INTO port_calls (` + portCallColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Vessel,
		p.BusinessUnit,
		p.ATB.UTC().Format(atbLayout),
		boolToInt(p.ArrivalAccurate),
		p.ArrivalVarianceH,
		p.BerthHours,
		p.CarbonTonnes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting port call: %w", err)
	}
	return nil
}

// CreateBatch inserts calls in order and stops at the first failure. Run it
// inside a UnitOfWork to make the batch atomic.
func (r *SQLitePortCallRepo) CreateBatch(ctx context.Context, calls []domain.PortCall) (int, error) {
	for i := range calls {
		if err := r.Create(ctx, &calls[i]); err != nil {
			return i, fmt.Errorf("port call %d: %w", i+1, err)
		}
	}
	return len(calls), nil
}

func (r *SQLitePortCallRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM port_calls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting port calls: %w", err)
	}
	return n, nil
}

func (r *SQLitePortCallRepo) LatestDate(ctx context.Context) (time.Time, bool, error) {
	var latest sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(atb) FROM port_calls`).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("querying latest atb: %w", err)
	}
	if !latest.Valid || latest.String == "" {
		return time.Time{}, false, nil
	}
	t, err := parseATB(latest.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing latest atb %q: %w", latest.String, err)
	}
	return calendar.Day(t), true, nil
}

// Evaluate aggregates measure over calls whose ATB falls in span. A span
// without calls yields nil.
func (r *SQLitePortCallRepo) Evaluate(ctx context.Context, measure string, span calendar.Span) (*float64, error) {
	expr, ok := measureExprs[measure]
	if !ok {
		return nil, unknownMeasure(measure)
	}
	start, end := spanArgs(span)

	var v sql.NullFloat64
	query := `SELECT ` + expr + ` FROM port_calls WHERE atb >= ? AND atb < ?`
	if err := r.db.QueryRowContext(ctx, query, start, end).Scan(&v); err != nil {
		return nil, fmt.Errorf("evaluating %s over %s: %w", measure, span, err)
	}
	if !v.Valid {
		return nil, nil
	}
	return &v.Float64, nil
}

// Metric binds measure to this repository as a window.Metric.
func (r *SQLitePortCallRepo) Metric(measure string) (window.Metric, error) {
	if _, ok := measureExprs[measure]; !ok {
		return nil, unknownMeasure(measure)
	}
	return window.MetricFunc(func(ctx context.Context, span calendar.Span) (*float64, error) {
		return r.Evaluate(ctx, measure, span)
	}), nil
}

// TopVesselsByVariance ranks vessels by the magnitude of their average
// arrival variance within span. Ties are broken by vessel name.
func (r *SQLitePortCallRepo) TopVesselsByVariance(ctx context.Context, span calendar.Span, n int) ([]domain.VesselVariance, error) {
	if n <= 0 {
		return nil, nil
	}
	start, end := spanArgs(span)
	query := `SELECT vessel, AVG(arrival_variance_h) AS variance, COUNT(*)
		FROM port_calls
		WHERE atb >= ? AND atb < ?
		GROUP BY vessel
		ORDER BY ABS(variance) DESC, vessel
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, start, end, n)
	if err != nil {
		return nil, fmt.Errorf("ranking vessels by variance: %w", err)
	}
	defer rows.Close()

	var out []domain.VesselVariance
	for rows.Next() {
		var v domain.VesselVariance
		if err := rows.Scan(&v.Vessel, &v.VarianceH, &v.Calls); err != nil {
			return nil, fmt.Errorf("scanning vessel variance: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
