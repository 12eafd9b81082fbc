package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexanderramin/harborguide/internal/cards"
	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/ingest"
	"github.com/alexanderramin/harborguide/internal/snapshot"
)

type contextService struct {
	cache    *snapshot.Cache
	builder  cards.Builder
	maxChars int
	observer UseCaseObserver
}

func NewContextService(
	cache *snapshot.Cache,
	builder cards.Builder,
	maxChars int,
	observers ...UseCaseObserver,
) ContextService {
	if maxChars <= 0 {
		maxChars = cards.DefaultMaxChars
	}
	return &contextService{
		cache:    cache,
		builder:  builder,
		maxChars: maxChars,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *contextService) Ingest(ctx context.Context, sourceKey string, snap *domain.Snapshot) error {
	startedAt := time.Now().UTC()
	s.cache.Put(sourceKey, snap)

	fields := map[string]any{"source_key": sourceKey}
	if snap != nil {
		fields["blocks"] = len(snap.Blocks)
		fields["rows"] = snap.RowCount()
		fields["partial_rows"] = snap.PartialRows()
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "ingest-snapshot",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields:    fields,
	})
	return nil
}

func (s *contextService) LoadWorkbook(ctx context.Context, path string) (snap *domain.Snapshot, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"path": path}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "load-workbook",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	var blocks []domain.TabularBlock
	blocks, err = ingest.ReadWorkbook(path)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}
	fields["sheets"] = len(blocks)

	snap = &domain.Snapshot{
		Workspace: filepath.Base(path),
		Blocks:    blocks,
	}
	fields["partial_rows"] = snap.PartialRows()
	s.cache.Put(domain.SnapshotKeyWorkbook, snap)
	return s.cache.Get(domain.SnapshotKeyWorkbook), nil
}

func (s *contextService) Cards(ctx context.Context, sourceKey string) (res *CardsResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"source_key": sourceKey}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "build-cards",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	snap, src := s.cache.Lookup(sourceKey)
	res = &CardsResult{SourceKey: sourceKey, Hit: src == snapshot.SourceKeyed}

	var blocks []domain.TabularBlock
	if snap != nil {
		blocks = snap.Blocks
		res.SnapshotID = snap.ID
	}

	var digest cards.Digest
	digest, err = s.builder.Compose(blocks, s.maxChars)
	if err != nil {
		return nil, fmt.Errorf("building cards: %w", err)
	}
	res.Text = digest.Text
	res.Included = digest.Included
	res.Total = digest.Total

	fields["hit"] = res.Hit
	fields["fallback"] = src == snapshot.SourceFallback
	fields["included"] = digest.Included
	fields["total"] = digest.Total
	return res, nil
}
