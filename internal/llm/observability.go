package llm

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task      TaskType
	Provider  Provider
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes one line per LLM call to an io.Writer.
type LogObserver struct {
	w io.Writer
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] llm_call task=%s provider=%s model=%s attempts=%d latency_ms=%d status=%s\n",
		ts, event.Task, event.Provider, event.Model, event.Attempts, event.LatencyMs, status)
}

// SlogObserver reports LLM calls through a structured logger.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver uses slog.Default when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []any{
		"task", event.Task,
		"provider", event.Provider,
		"model", event.Model,
		"attempts", event.Attempts,
		"latency_ms", event.LatencyMs,
	}
	if event.Success {
		o.logger.Info("llm_call", attrs...)
		return
	}
	o.logger.Warn("llm_call", append(attrs, "error_code", event.ErrorCode)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
