package httpapi

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/route"
)

// MaxUploadBytes bounds request bodies; visual exports can be large.
const MaxUploadBytes = 32 << 20

// Register installs the middleware chain and every route on r.
func Register(r *route.Engine, h *Handler, allowedOrigin string) {
	r.Use(Recovery(), Logger(), CORS(allowedOrigin))

	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/visual-data/upload", h.Upload)
		api.GET("/context", h.Context)
		api.POST("/ask", h.Ask)
		api.GET("/kpis", h.KPIs)
		api.GET("/kpis/dummy", h.DummyKPIs)
	}
}

// NewServer builds a hertz server listening on addr with all routes
// registered. The caller runs and shuts it down.
func NewServer(addr string, h *Handler, allowedOrigin string) *server.Hertz {
	srv := server.New(
		server.WithHostPorts(addr),
		server.WithMaxRequestBodySize(MaxUploadBytes),
		server.WithDisablePrintRoute(true),
	)
	Register(srv.Engine, h, allowedOrigin)
	return srv
}
