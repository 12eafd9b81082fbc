package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/repository"
	"github.com/alexanderramin/harborguide/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events)
	return o.events[len(o.events)-1]
}

// seedWeek stores two calls in the week of 2025-10-13 and one in the week
// before. The latest ATB is Wednesday 2025-10-15.
func seedWeek(t *testing.T, repo *repository.SQLitePortCallRepo) {
	t.Helper()
	calls := []domain.PortCall{
		testutil.NewTestPortCall("MV A", testutil.WithATB(testutil.Day(2025, 10, 14)),
			testutil.WithVariance(2), testutil.WithBerthHours(30), testutil.WithCarbon(5)),
		testutil.NewTestPortCall("MV B", testutil.WithATB(testutil.Day(2025, 10, 15)),
			testutil.WithAccurate(false), testutil.WithVariance(-6), testutil.WithBerthHours(40), testutil.WithCarbon(3)),
		testutil.NewTestPortCall("MV A", testutil.WithATB(testutil.Day(2025, 10, 7)),
			testutil.WithVariance(1), testutil.WithBerthHours(20), testutil.WithCarbon(4)),
	}
	_, err := repo.CreateBatch(context.Background(), calls)
	require.NoError(t, err)
}

func block(name string, header []string, records ...map[string]any) domain.TabularBlock {
	return domain.NewTabularBlock(domain.BlockSheet, name, header, records)
}
