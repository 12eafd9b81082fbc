package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "build-cards", Success: true, Fields: map[string]any{"included": 3}})
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "use_case=build-cards")
	assert.Contains(t, buf.String(), "included=3")
	assert.Contains(t, buf.String(), "component=service")

	buf.Reset()
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "kpi-snapshot", Success: true,
		Fields: map[string]any{"degraded": []string{"within_4h: boom"}}})
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "import-facts", Err: errors.New("disk full")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `error="disk full"`)
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
