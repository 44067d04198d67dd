// Package panels defines the diagnostic panel contract and the per-request
// orchestration around it.
//
// A panel is a black box that receives lifecycle callbacks and returns a bag
// of statistics. The orchestrator opens a RequestContext per request,
// dispatches hooks to every panel in registration order, and stores the
// finished record in a bounded in-memory history so the toolbar's own routes
// can serve it back.
//
// Panel instances are created fresh for every request via a Factory, so a
// panel may keep per-request state in plain fields without locking.
package panels

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Stats is the bag of statistics a panel hands back after a request.
// Values must be JSON-serializable.
type Stats map[string]any

// Panel receives lifecycle callbacks for a single request.
type Panel interface {
	// Name is the panel's stable machine identifier.
	Name() string

	// Title is the human-readable heading shown in the toolbar.
	Title() string

	// OnRequest is called before the wrapped handler runs.
	OnRequest(r *http.Request)

	// OnResponse is called once the response is complete, with the final
	// status and headers as the wrapped application declared them.
	OnResponse(status int, headers http.Header)

	// Stats returns the collected statistics. Called after OnResponse.
	Stats() Stats
}

// Factory creates a fresh panel instance for one request.
type Factory func() Panel

// Orchestrator owns the panel factories and the shared history. It is safe
// for concurrent use: the factory list is read-only after construction and
// the history does its own locking.
type Orchestrator struct {
	factories []Factory
	history   *History
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator dispatching to panels built from
// the given factories, in order, storing finished records in history.
func NewOrchestrator(history *History, logger *slog.Logger, factories ...Factory) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		factories: factories,
		history:   history,
		logger:    logger,
	}
}

// History exposes the record store for the toolbar's own routes.
func (o *Orchestrator) History() *History {
	return o.history
}

// Open instantiates every panel and dispatches OnRequest. A panic inside a
// panel hook is recovered and logged; a broken panel must never break the
// response it is observing.
func (o *Orchestrator) Open(r *http.Request) *RequestContext {
	ctx := &RequestContext{
		id:      newID(),
		method:  r.Method,
		path:    r.URL.Path,
		started: time.Now(),
		panels:  make([]Panel, 0, len(o.factories)),
		history: o.history,
		logger:  o.logger,
	}
	for _, factory := range o.factories {
		p := factory()
		ctx.panels = append(ctx.panels, p)
		o.dispatch(p, func() { p.OnRequest(r) })
	}
	return ctx
}

func (o *Orchestrator) dispatch(p Panel, hook func()) {
	defer func() {
		if v := recover(); v != nil {
			o.logger.Error("panel hook panicked",
				slog.String("panel", p.Name()),
				slog.String("panic", fmt.Sprint(v)),
			)
		}
	}()
	hook()
}

// RequestContext is the per-request scoped state container: the open panel
// instances plus enough request metadata to build a Record. It is exclusively
// owned by the request's task.
type RequestContext struct {
	id      string
	method  string
	path    string
	started time.Time
	panels  []Panel
	history *History
	logger  *slog.Logger
}

// ID is the record identifier assigned to this request.
func (c *RequestContext) ID() string {
	return c.id
}

// Finish dispatches OnResponse to every panel, collects their stats into a
// Record, stores it in the history, and returns it. Panel panics are
// contained the same way as in Open.
func (c *RequestContext) Finish(status int, headers http.Header) Record {
	rec := Record{
		ID:        c.id,
		Method:    c.method,
		Path:      c.path,
		Status:    status,
		Duration:  time.Since(c.started),
		StartedAt: c.started,
		Panels:    make([]PanelRecord, 0, len(c.panels)),
	}

	for _, p := range c.panels {
		func() {
			defer func() {
				if v := recover(); v != nil {
					c.logger.Error("panel hook panicked",
						slog.String("panel", p.Name()),
						slog.String("panic", fmt.Sprint(v)),
					)
				}
			}()
			p.OnResponse(status, headers)
			rec.Panels = append(rec.Panels, PanelRecord{
				Name:  p.Name(),
				Title: p.Title(),
				Stats: p.Stats(),
			})
		}()
	}

	if c.history != nil {
		c.history.Add(rec)
	}
	return rec
}

// PanelRecord is one panel's contribution to a finished record.
type PanelRecord struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Stats Stats  `json:"stats"`
}

// Record is the finished, immutable snapshot of one observed request.
type Record struct {
	ID        string        `json:"id"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration_ns"`
	StartedAt time.Time     `json:"started_at"`
	Panels    []PanelRecord `json:"panels"`
}

// UUID v4 bit manipulation constants.
const (
	uuidVersion4    = 0x40 // Version 4 (random) in bits 4-7 of byte 6.
	uuidVersionMask = 0x0f // Mask to clear version bits before setting.
	uuidVariant10   = 0x80 // RFC 4122 variant (10xx) in bits 6-7 of byte 8.
	uuidVariantMask = 0x3f // Mask to clear variant bits before setting.
)

// newID produces a UUID v4 string using crypto/rand.
func newID() string {
	var uuid [16]byte
	_, _ = rand.Read(uuid[:])

	uuid[6] = (uuid[6] & uuidVersionMask) | uuidVersion4
	uuid[8] = (uuid[8] & uuidVariantMask) | uuidVariant10

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:16])
}
