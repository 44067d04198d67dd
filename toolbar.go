// Package debugtoolbar is an in-process diagnostic overlay for net/http
// servers. Its middleware intercepts each request/response cycle, collects
// per-request facts through a panel interface, and rewrites HTML responses to
// embed a visual report, transparently undoing and redoing any response
// compression so the rewrite is correct regardless of the origin's encoding
// choices.
//
// Usage:
//
//	tb, err := debugtoolbar.New(debugtoolbar.DefaultConfig(), logger)
//	...
//	router.Use(tb.Middleware())
//	router.Mount(tb.PathPrefix(), tb.Routes())
//
// Responses that are not HTML, exceed the size cap, or hit any the pipeline
// cannot safely interpret are passed through byte for byte: the toolbar never
// turns a working response into a broken one.
package debugtoolbar

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/JacobCoffee/debug-toolbar/internal/encoding"
	"github.com/JacobCoffee/debug-toolbar/internal/panels"
	"github.com/JacobCoffee/debug-toolbar/internal/pipeline"
	"github.com/JacobCoffee/debug-toolbar/internal/render"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response outcome counters, exposable by the host application through
// metrics.WritePrometheus.
var (
	rewrittenTotal    = metrics.NewCounter(`debugtoolbar_responses_total{outcome="rewritten"}`)
	passthroughTotal  = metrics.NewCounter(`debugtoolbar_responses_total{outcome="passthrough"}`)
	decodeFailedTotal = metrics.NewCounter(`debugtoolbar_responses_total{outcome="decode_failed"}`)
	violationsTotal   = metrics.NewCounter(`debugtoolbar_protocol_violations_total`)
)

// Panel is the contract for a diagnostic collector: a fresh instance per
// request receives lifecycle callbacks and returns a bag of statistics.
type Panel = panels.Panel

// PanelFactory creates a fresh Panel for one request.
type PanelFactory = panels.Factory

// Config controls the interception pipeline.
type Config struct {
	// Enabled turns interception on. When false the middleware is the
	// identity function: nothing is buffered and nothing is observed.
	Enabled bool

	// InsertBefore is the marker the toolbar fragment is spliced in front
	// of, at its last occurrence. When absent from a body the fragment is
	// appended; when empty the fragment is always appended.
	InsertBefore string

	// ExcludePaths lists request path prefixes that are never intercepted.
	// The toolbar's own PathPrefix is always excluded.
	ExcludePaths []string

	// MaxBodySize caps how many response bytes are buffered per request.
	// Larger responses degrade to streaming pass-through. Zero means no cap.
	MaxBodySize int64

	// HistorySize bounds the in-memory request history.
	HistorySize int

	// PathPrefix is where the host mounts Routes.
	PathPrefix string

	// DisabledCodecs names content codings whose decoders are turned off,
	// leaving them known but unavailable to the decompression cascade.
	DisabledCodecs []string
}

// DefaultConfig returns the standard configuration: enabled, injecting
// before the closing body tag, buffering at most 4 MiB per response, and
// retaining the 50 most recent records.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		InsertBefore: "</body>",
		MaxBodySize:  4 << 20,
		HistorySize:  50,
		PathPrefix:   "/_debug_toolbar",
	}
}

// Toolbar holds the pipeline, panel orchestration, and rendering for one
// middleware installation. Safe for concurrent use: all per-request state
// lives in the request's own capture and context.
type Toolbar struct {
	cfg      Config
	logger   *slog.Logger
	pipe     *pipeline.Pipeline
	gate     pipeline.Gate
	orch     *panels.Orchestrator
	renderer *render.Renderer
}

// New creates a Toolbar. The built-in panels (timer, request, versions,
// trace) are always installed; extra factories are appended after them.
func New(cfg Config, logger *slog.Logger, extra ...PanelFactory) (*Toolbar, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	renderer, err := render.New(cfg.PathPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	registry := encoding.NewRegistry(cfg.DisabledCodecs...)
	history := panels.NewHistory(cfg.HistorySize)
	factories := append(panels.Defaults(), extra...)

	return &Toolbar{
		cfg:    cfg,
		logger: logger,
		pipe:   pipeline.New(registry, cfg.InsertBefore, logger),
		gate: pipeline.Gate{
			ExcludePrefixes: append([]string{cfg.PathPrefix}, cfg.ExcludePaths...),
			MaxBodySize:     cfg.MaxBodySize,
		},
		orch:     panels.NewOrchestrator(history, logger, factories...),
		renderer: renderer,
	}, nil
}

// PathPrefix returns the mount point for Routes.
func (t *Toolbar) PathPrefix() string {
	return t.cfg.PathPrefix
}

// Middleware returns the interception middleware. A disabled toolbar returns
// the identity middleware so the wrapped application runs with near-zero
// overhead.
func (t *Toolbar) Middleware() func(http.Handler) http.Handler {
	if !t.cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rctx := t.orch.Open(r)
			iw := newInterceptWriter(w, r, t, rctx)
			next.ServeHTTP(iw, r)
			iw.finalize()
		})
	}
}

// Routes returns the toolbar's own handler: the request history as JSON, a
// single record by id, and the embedded stylesheet. The host mounts it at
// PathPrefix; those paths are always excluded from interception.
func (t *Toolbar) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/history", t.handleHistory)
	r.Get("/history/{id}", t.handleRecord)
	r.Get("/static/toolbar.css", handleCSS)
	return r
}

func (t *Toolbar) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, t.logger, http.StatusOK, t.orch.History().Records())
}

func (t *Toolbar) handleRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := t.orch.History().Get(id)
	if !ok {
		writeJSON(w, r, t.logger, http.StatusNotFound, map[string]string{
			"error": "record not found or evicted",
			"id":    id,
		})
		return
	}
	writeJSON(w, r, t.logger, http.StatusOK, rec)
}

func handleCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(render.CSS())
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("writing toolbar response failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
}
