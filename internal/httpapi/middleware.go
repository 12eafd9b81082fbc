package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"github.com/alexanderramin/harborguide/internal/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Recovery turns a handler panic into a 500 response.
func Recovery() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				logging.FromContext(ctx).Error("panic recovered",
					"request_id", RequestID(c),
					"method", string(c.Method()),
					"path", string(c.Path()),
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(consts.StatusInternalServerError, utils.H{"error": "internal server error"})
			}
		}()
		c.Next(ctx)
	}
}

// Logger assigns a request id, attaches a request-scoped logger to the
// context and logs completion. Health checks are not logged.
func Logger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Path())

		requestID := string(c.Request.Header.Peek(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response.Header.Set(RequestIDHeader, requestID)

		logger := slog.Default().With(
			"request_id", requestID,
			"method", string(c.Method()),
			"path", path,
		)
		c.Next(logging.WithContext(ctx, logger))

		if path == "/health" {
			return
		}
		status := c.Response.StatusCode()
		logger = logger.With(
			"status", status,
			"client_ip", c.ClientIP(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
		switch {
		case status >= 500:
			logger.Error("request completed with server error")
		case status >= 400:
			logger.Warn("request completed with client error")
		default:
			logger.Info("request completed")
		}
	}
}

// CORS allows credentialed requests from origin and answers preflights with 204.
func CORS(origin string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		h := &c.Response.Header
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		h.Set("Access-Control-Expose-Headers", RequestIDHeader)
		h.Set("Vary", "Origin")

		if string(c.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}

// RequestID returns the id assigned by Logger.
func RequestID(c *app.RequestContext) string {
	return string(c.Response.Header.Peek(RequestIDHeader))
}
