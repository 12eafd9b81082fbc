package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/harborguide/internal/db"
	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/ingest"
	"github.com/alexanderramin/harborguide/internal/repository"
)

type factService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewFactService(uow db.UnitOfWork, observers ...UseCaseObserver) FactService {
	return &factService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Import inserts every call in one transaction; nothing is stored if any
// call is rejected.
func (s *factService) Import(ctx context.Context, calls []domain.PortCall) (res *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"total": len(calls)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-facts",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	var inserted int
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLitePortCallRepo(tx).CreateBatch(ctx, calls)
		inserted = n
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("importing port calls: %w", err)
	}
	fields["inserted"] = inserted
	return &ImportResult{Inserted: inserted, Total: len(calls)}, nil
}

func (s *factService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	calls, err := ingest.ReadPortCallsCSV(r)
	if err != nil {
		return nil, fmt.Errorf("reading port calls: %w", err)
	}
	return s.Import(ctx, calls)
}
