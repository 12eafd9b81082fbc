package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// HertzLogger routes hertz framework logs through slog.
type HertzLogger struct {
	logger *slog.Logger
}

var _ hlog.FullLogger = (*HertzLogger)(nil)

func NewHertzLogger(logger *slog.Logger) *HertzLogger {
	return &HertzLogger{logger: logger.With("component", "hertz")}
}

func (h *HertzLogger) log(ctx context.Context, level slog.Level, msg string) {
	h.logger.Log(ctx, level, msg)
}

func (h *HertzLogger) Trace(v ...any)  { h.log(context.Background(), slog.LevelDebug, sprint(v...)) }
func (h *HertzLogger) Debug(v ...any)  { h.log(context.Background(), slog.LevelDebug, sprint(v...)) }
func (h *HertzLogger) Info(v ...any)   { h.log(context.Background(), slog.LevelInfo, sprint(v...)) }
func (h *HertzLogger) Notice(v ...any) { h.log(context.Background(), slog.LevelInfo, sprint(v...)) }
func (h *HertzLogger) Warn(v ...any)   { h.log(context.Background(), slog.LevelWarn, sprint(v...)) }
func (h *HertzLogger) Error(v ...any)  { h.log(context.Background(), slog.LevelError, sprint(v...)) }
func (h *HertzLogger) Fatal(v ...any)  { h.log(context.Background(), slog.LevelError, sprint(v...)) }

func (h *HertzLogger) Tracef(format string, v ...any) {
	h.log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) Debugf(format string, v ...any) {
	h.log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) Infof(format string, v ...any) {
	h.log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) Noticef(format string, v ...any) {
	h.log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) Warnf(format string, v ...any) {
	h.log(context.Background(), slog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) Errorf(format string, v ...any) {
	h.log(context.Background(), slog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) Fatalf(format string, v ...any) {
	h.log(context.Background(), slog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) CtxTracef(ctx context.Context, format string, v ...any) {
	h.log(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) CtxDebugf(ctx context.Context, format string, v ...any) {
	h.log(ctx, slog.LevelDebug, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) CtxInfof(ctx context.Context, format string, v ...any) {
	h.log(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) CtxNoticef(ctx context.Context, format string, v ...any) {
	h.log(ctx, slog.LevelInfo, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) CtxWarnf(ctx context.Context, format string, v ...any) {
	h.log(ctx, slog.LevelWarn, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) CtxErrorf(ctx context.Context, format string, v ...any) {
	h.log(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}

func (h *HertzLogger) CtxFatalf(ctx context.Context, format string, v ...any) {
	h.log(ctx, slog.LevelError, fmt.Sprintf(format, v...))
}

// SetLevel and SetOutput are no-ops; the slog handler owns both.
func (h *HertzLogger) SetLevel(hlog.Level)   {}
func (h *HertzLogger) SetOutput(w io.Writer) {}

func sprint(v ...any) string {
	if len(v) == 1 {
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(v...)
}
