package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/harborguide/internal/calendar"
	"github.com/alexanderramin/harborguide/internal/db"
	"github.com/alexanderramin/harborguide/internal/domain"
	"github.com/alexanderramin/harborguide/internal/testutil"
	"github.com/alexanderramin/harborguide/internal/window"
)

var (
	currentWeek  = calendar.NewSpan(calendar.Date(2025, 10, 13), calendar.Date(2025, 10, 19))
	previousWeek = currentWeek.Shift(-7)
)

func seedCalls(t *testing.T, repo *SQLitePortCallRepo) {
	t.Helper()
	calls := []domain.PortCall{
		testutil.NewTestPortCall("MV A", testutil.WithATB(testutil.Day(2025, 10, 14)),
			testutil.WithVariance(2), testutil.WithBerthHours(30), testutil.WithCarbon(5)),
		testutil.NewTestPortCall("MV B", testutil.WithATB(testutil.Day(2025, 10, 15)),
			testutil.WithAccurate(false), testutil.WithVariance(-6), testutil.WithBerthHours(40), testutil.WithCarbon(3)),
		testutil.NewTestPortCall("MV C", testutil.WithATB(testutil.Day(2025, 10, 20)),
			testutil.WithVariance(9)),
		testutil.NewTestPortCall("MV A", testutil.WithATB(testutil.Day(2025, 10, 7)),
			testutil.WithVariance(1), testutil.WithBerthHours(20), testutil.WithCarbon(4)),
	}
	n, err := repo.CreateBatch(context.Background(), calls)
	require.NoError(t, err)
	require.Equal(t, len(calls), n)
}

func TestPortCallRepo_CreateStoresValues(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	call := testutil.NewTestPortCall("MV Aurora", testutil.WithATB(testutil.Day(2025, 10, 16)),
		testutil.WithVariance(-1.5), testutil.WithAccurate(false))
	require.NoError(t, repo.Create(ctx, &call))

	latest, ok, err := repo.LatestDate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, calendar.Date(2025, 10, 16), latest)

	variance, err := repo.Evaluate(ctx, MeasureArrivalVarianceH, currentWeek)
	require.NoError(t, err)
	require.NotNil(t, variance)
	assert.Equal(t, -1.5, *variance)

	accuracy, err := repo.Evaluate(ctx, MeasureArrivalAccuracyPct, currentWeek)
	require.NoError(t, err)
	require.NotNil(t, accuracy)
	assert.Equal(t, 0.0, *accuracy)
}

func TestPortCallRepo_CreateAssignsID(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	call := testutil.NewTestPortCall("MV A")
	call.ID = ""
	require.NoError(t, repo.Create(context.Background(), &call))
	assert.NotEmpty(t, call.ID)
}

func TestPortCallRepo_CreateRejectsInvalid(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	call := testutil.NewTestPortCall("")
	assert.Error(t, repo.Create(context.Background(), &call))
}

func TestPortCallRepo_LatestDate(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, ok, err := repo.LatestDate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	seedCalls(t, repo)
	latest, ok, err := repo.LatestDate(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, calendar.Date(2025, 10, 20), latest)
}

func TestPortCallRepo_EvaluateMeasures(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	seedCalls(t, repo)

	cases := []struct {
		measure string
		span    calendar.Span
		want    float64
	}{
		{MeasureArrivalAccuracyPct, currentWeek, 50},
		{MeasureWithin4hPct, currentWeek, 50},
		{MeasureAvgBerthHours, currentWeek, 35},
		{MeasureCarbonTonnes, currentWeek, 8},
		{MeasureArrivalVarianceH, currentWeek, -2},
		{MeasureArrivalAccuracyPct, previousWeek, 100},
		{MeasureAvgBerthHours, previousWeek, 20},
	}
	for _, tc := range cases {
		v, err := repo.Evaluate(ctx, tc.measure, tc.span)
		require.NoError(t, err, tc.measure)
		require.NotNil(t, v, tc.measure)
		assert.InDelta(t, tc.want, *v, 1e-9, "%s over %s", tc.measure, tc.span)
	}
}

func TestPortCallRepo_EvaluateEmptySpanIsNil(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	seedCalls(t, repo)

	empty := calendar.NewSpan(calendar.Date(2025, 9, 1), calendar.Date(2025, 9, 7))
	for _, m := range Measures() {
		v, err := repo.Evaluate(context.Background(), m, empty)
		require.NoError(t, err, m)
		assert.Nil(t, v, m)
	}
}

func TestPortCallRepo_SpanIsInclusiveOfLastDay(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	late := testutil.NewTestPortCall("MV Late", testutil.WithATB(time.Date(2025, 10, 19, 23, 59, 0, 0, time.UTC)), testutil.WithCarbon(2))
	early := testutil.NewTestPortCall("MV Early", testutil.WithATB(time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)), testutil.WithCarbon(1))
	next := testutil.NewTestPortCall("MV Next", testutil.WithATB(time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)), testutil.WithCarbon(100))
	_, err := repo.CreateBatch(ctx, []domain.PortCall{late, early, next})
	require.NoError(t, err)

	v, err := repo.Evaluate(ctx, MeasureCarbonTonnes, currentWeek)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 3.0, *v)
}

func TestPortCallRepo_UnknownMeasure(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	_, err := repo.Evaluate(context.Background(), "'; DROP TABLE port_calls; --", currentWeek)
	assert.ErrorIs(t, err, ErrUnknownMeasure)

	_, err = repo.Metric("nope")
	assert.ErrorIs(t, err, ErrUnknownMeasure)
	assert.ErrorContains(t, err, "supported: arrival_accuracy_pct, arrival_variance_h")
}

func TestPortCallRepo_MetricDrivesWindow(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	seedCalls(t, repo)

	metric, err := repo.Metric(MeasureArrivalAccuracyPct)
	require.NoError(t, err)

	c, err := window.Compute(context.Background(), window.WoW, metric, calendar.Date(2025, 10, 15))
	require.NoError(t, err)
	require.NoError(t, c.Err)
	require.NotNil(t, c.Current)
	require.NotNil(t, c.Previous)
	assert.InDelta(t, 50.0, *c.Current, 1e-9)
	assert.InDelta(t, 100.0, *c.Previous, 1e-9)
}

func TestPortCallRepo_TopVesselsByVariance(t *testing.T) {
	repo := NewSQLitePortCallRepo(testutil.NewTestDB(t))
	seedCalls(t, repo)

	top, err := repo.TopVesselsByVariance(context.Background(), currentWeek, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "MV B", top[0].Vessel)
	assert.Equal(t, -6.0, top[0].VarianceH)
	assert.Equal(t, "MV A", top[1].Vessel)
	assert.Equal(t, 1, top[1].Calls)

	top, err = repo.TopVesselsByVariance(context.Background(), currentWeek, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	top, err = repo.TopVesselsByVariance(context.Background(), currentWeek, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestPortCallRepo_BatchRollsBackInTransaction(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: boom}

	calls := testutil.WeekOfCalls("MV A", testutil.Day(2025, 10, 13), 5)
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := NewSQLitePortCallRepo(tx).CreateBatch(ctx, calls)
		return err
	})
	assert.ErrorIs(t, err, boom)

	n, err := NewSQLitePortCallRepo(database).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestParseATB(t *testing.T) {
	got, err := parseATB("2025-10-16 08:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 16, 8, 30, 0, 0, time.UTC), got)

	got, err = parseATB("2025-10-16")
	require.NoError(t, err)
	assert.Equal(t, calendar.Date(2025, 10, 16), got)

	_, err = parseATB("16/10/2025")
	assert.Error(t, err)
}
