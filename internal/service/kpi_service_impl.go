package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/kpi"
	"github.com/alexanderramin/harborguide/internal/repository"
	"github.com/alexanderramin/harborguide/internal/window"
)

// TopVesselCount is the number of vessels reported alongside the KPIs.
const TopVesselCount = 5

type kpiService struct {
	calls    repository.PortCallRepo
	defs     []kpi.Definition
	observer UseCaseObserver
}

func NewKPIService(
	calls repository.PortCallRepo,
	defs []kpi.Definition,
	observers ...UseCaseObserver,
) KPIService {
	if len(defs) == 0 {
		defs = kpi.DefaultDefinitions()
	}
	return &kpiService{
		calls:    calls,
		defs:     defs,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *kpiService) Snapshot(ctx context.Context) (out *KPISnapshot, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"kpis": len(s.defs)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "kpi-snapshot",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	latest, ok, err := s.calls.LatestDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding latest date: %w", err)
	}
	if !ok {
		fields["empty"] = true
		return &KPISnapshot{
			Bundle:     kpi.Empty(s.defs),
			TopVessels: []domain.VesselVariance{},
		}, nil
	}
	fields["as_of"] = latest.Format("2006-01-02")

	metrics := make([]window.Metric, len(s.defs))
	for i, def := range s.defs {
		metrics[i], err = s.calls.Metric(def.Measure)
		if err != nil {
			return nil, fmt.Errorf("kpi %q: %w", def.Name, err)
		}
	}

	entries := make([]kpi.Entry, len(s.defs))
	degraded := make([]error, len(s.defs))
	var top []domain.VesselVariance

	g, gctx := errgroup.WithContext(ctx)
	for i, def := range s.defs {
		g.Go(func() error {
			c, err := window.Compute(gctx, def.Window, metrics[i], latest)
			if err != nil {
				return fmt.Errorf("kpi %q: %w", def.Name, err)
			}
			degraded[i] = c.Err
			entries[i] = kpi.Entry{Name: def.Name, Packet: kpi.FromComparison(c, def.Unit)}
			return nil
		})
	}
	g.Go(func() error {
		current, _, err := window.Spans(window.WoW, latest)
		if err != nil {
			return err
		}
		top, err = s.calls.TopVesselsByVariance(gctx, current, TopVesselCount)
		if err != nil {
			return fmt.Errorf("top vessels: %w", err)
		}
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	var failed []string
	for i, e := range degraded {
		if e != nil {
			failed = append(failed, s.defs[i].Name+": "+e.Error())
		}
	}
	if len(failed) > 0 {
		fields["degraded"] = failed
	}
	if top == nil {
		top = []domain.VesselVariance{}
	}

	return &KPISnapshot{
		Bundle:     kpi.Assemble(latest, entries),
		TopVessels: top,
	}, nil
}
