// Package http provides the demo server's inbound HTTP adapter: routing and
// server lifecycle around the toolbar middleware.
package http

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"

	debugtoolbar "github.com/JacobCoffee/debug-toolbar"
	"github.com/JacobCoffee/debug-toolbar/internal/adapters/http/handlers"
)

// NewRouter creates the demo server's handler with all routes registered.
// Middleware is applied globally in the order given; the toolbar middleware
// is expected to be the innermost entry so every other middleware sees the
// rewritten response.
func NewRouter(
	demo *handlers.Demo,
	toolbar *debugtoolbar.Toolbar,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/", demo.Home)
	r.Get("/compressed", demo.Compressed)
	r.Get("/stream", demo.Stream)
	r.Get("/api/time", demo.Time)
	r.Get("/panic", demo.Panic)

	r.Get("/health/live", demo.Liveness)
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	r.Mount(toolbar.PathPrefix(), toolbar.Routes())

	return r
}
