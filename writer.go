package debugtoolbar

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/JacobCoffee/debug-toolbar/internal/panels"
	"github.com/JacobCoffee/debug-toolbar/internal/pipeline"
)

type interceptMode int

const (
	// modeUndecided: no response start observed yet.
	modeUndecided interceptMode = iota

	// modeBuffering: the response is eligible and being captured in full.
	modeBuffering

	// modePassthrough: writes go straight to the underlying writer.
	modePassthrough
)

// interceptWriter adapts an http.ResponseWriter into the pipeline's event
// model. WriteHeader becomes the start event, each Write a body chunk, and
// the handler returning marks the final chunk. Eligibility is decided at the
// first WriteHeader, from headers alone; ineligible responses are forwarded
// message-by-message so their streaming semantics and backpressure survive.
type interceptWriter struct {
	rw   http.ResponseWriter
	req  *http.Request
	tb   *Toolbar
	rctx *panels.RequestContext

	cap        *pipeline.Capture
	mode       interceptMode
	status     int
	downstream bool // header already forwarded to the underlying writer
}

func newInterceptWriter(w http.ResponseWriter, r *http.Request, tb *Toolbar, rctx *panels.RequestContext) *interceptWriter {
	return &interceptWriter{
		rw:     w,
		req:    r,
		tb:     tb,
		rctx:   rctx,
		cap:    pipeline.NewCapture(),
		status: http.StatusOK,
	}
}

func (iw *interceptWriter) Header() http.Header {
	return iw.rw.Header()
}

func (iw *interceptWriter) WriteHeader(code int) {
	switch iw.mode {
	case modeUndecided:
		ev := pipeline.StartEvent{Status: code, Headers: snapshotHeaders(iw.rw.Header())}
		iw.status = code
		if iw.tb.gate.Eligible(iw.req.URL.Path, ev) {
			iw.mode = modeBuffering
			_ = iw.cap.OnStart(ev) // first start cannot fail
			return
		}
		iw.mode = modePassthrough
		iw.downstream = true
		iw.rw.WriteHeader(code)

	case modeBuffering:
		// A second start is fatal for this response: whatever has been
		// captured is passed through unmodified.
		violationsTotal.Inc()
		iw.tb.logger.Debug("duplicate WriteHeader, passing response through",
			slog.String("path", iw.req.URL.Path),
			slog.Int("ignored_status", code))
		iw.degrade()

	case modePassthrough:
		if iw.downstream {
			return
		}
		iw.downstream = true
		iw.rw.WriteHeader(code)
	}
}

func (iw *interceptWriter) Write(b []byte) (int, error) {
	if iw.mode == modeUndecided {
		iw.WriteHeader(http.StatusOK)
	}
	if iw.mode == modePassthrough {
		return iw.rw.Write(b)
	}

	// The handler may reuse its write buffer, so the capture gets a copy.
	data := make([]byte, len(b))
	copy(data, b)

	if err := iw.cap.OnBody(pipeline.BodyEvent{Data: data, More: true}); err != nil {
		violationsTotal.Inc()
		iw.tb.logger.Debug("response capture violation, passing response through",
			slog.String("path", iw.req.URL.Path),
			slog.Any("error", err))
		iw.degrade()
		return iw.rw.Write(b)
	}

	if iw.tb.gate.Overflow(iw.cap.Size()) {
		iw.tb.logger.Debug("response exceeded max buffer size, streaming through",
			slog.String("path", iw.req.URL.Path),
			slog.Int64("buffered", iw.cap.Size()))
		iw.degrade()
	}
	return len(b), nil
}

// Flush is a no-op while a response is being captured: full buffering is
// deliberate, the toolbar cannot inject into a response it has not fully
// seen. Pass-through responses keep their streaming behavior.
func (iw *interceptWriter) Flush() {
	if iw.mode != modePassthrough {
		return
	}
	if f, ok := iw.rw.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying http.ResponseWriter so that
// http.ResponseController and type assertions work through the wrapper.
func (iw *interceptWriter) Unwrap() http.ResponseWriter {
	return iw.rw
}

// degrade abandons interception: the captured start and chunks are replayed
// onto the underlying writer unmodified and all further writes stream
// through. Called for protocol violations, buffer overflow, and render
// failure; safe to call at most once per response by construction.
func (iw *interceptWriter) degrade() {
	iw.mode = modePassthrough
	if !iw.downstream {
		iw.downstream = true
		iw.rw.WriteHeader(iw.cap.Status())
	}
	for _, chunk := range iw.cap.Chunks() {
		_, _ = iw.rw.Write(chunk)
	}
	iw.cap.Release()
}

// finalize runs after the wrapped handler returns. It completes the capture,
// dispatches the panel hooks, and either emits the rewritten response or
// replays the original. Any internal panic is contained here: the toolbar
// must never turn a working response into a broken one.
func (iw *interceptWriter) finalize() {
	defer func() {
		if v := recover(); v != nil {
			iw.tb.logger.Error("toolbar pipeline panicked, passing response through",
				slog.String("path", iw.req.URL.Path),
				slog.String("panic", fmt.Sprint(v)))
			if iw.mode == modeBuffering {
				iw.degrade()
			}
		}
	}()

	switch iw.mode {
	case modeUndecided:
		// The handler wrote nothing; net/http sends an empty 200 when the
		// middleware returns.
		iw.rctx.Finish(http.StatusOK, iw.rw.Header())
		passthroughTotal.Inc()

	case modePassthrough:
		iw.rctx.Finish(iw.status, iw.rw.Header())
		passthroughTotal.Inc()

	case modeBuffering:
		iw.emitBuffered()
	}
}

func (iw *interceptWriter) emitBuffered() {
	_ = iw.cap.OnBody(pipeline.BodyEvent{More: false})

	// A cancelled request releases its buffers and never touches the
	// transport; no injection is attempted.
	if iw.req.Context().Err() != nil {
		iw.tb.logger.Debug("request cancelled mid-capture, dropping buffered response",
			slog.String("path", iw.req.URL.Path))
		iw.cap.Release()
		return
	}

	rec := iw.rctx.Finish(iw.cap.Status(), iw.rw.Header())

	fragment, err := iw.tb.renderer.Fragment(rec)
	if err != nil {
		iw.tb.logger.Debug("toolbar fragment render failed, passing response through",
			slog.String("path", iw.req.URL.Path),
			slog.Any("error", err))
		iw.degrade()
		passthroughTotal.Inc()
		return
	}

	start, final, rewritten := iw.tb.pipe.Finalize(iw.cap, fragment)
	if rewritten {
		rewrittenTotal.Inc()
	} else {
		// An eligible response that could not be rewritten means the
		// encoding stack was not reversible.
		decodeFailedTotal.Inc()
	}

	h := iw.rw.Header()
	clear(h)
	for _, hdr := range start.Headers {
		h.Add(hdr.Name, hdr.Value)
	}
	iw.downstream = true
	iw.rw.WriteHeader(start.Status)
	_, _ = iw.rw.Write(final.Data)

	iw.cap.Release()
}

// snapshotHeaders flattens an http.Header map into the pipeline's ordered
// list. Keys are sorted for a stable order; values keep their declaration
// order, so duplicates survive.
func snapshotHeaders(h http.Header) []pipeline.Header {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]pipeline.Header, 0, len(h))
	for _, key := range keys {
		for _, val := range h[key] {
			out = append(out, pipeline.Header{Name: key, Value: val})
		}
	}
	return out
}
