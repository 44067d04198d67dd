// Package handlers provides the demo server's endpoints. Each one exercises
// a different path through the toolbar pipeline: plain HTML, compressed
// HTML, non-HTML pass-through, chunked streaming, and a panic for the
// recovery middleware.
package handlers

import (
	"compress/gzip"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const homePage = `<!DOCTYPE html>
<html>
<head><title>debug-toolbar demo</title></head>
<body>
<h1>debug-toolbar demo</h1>
<p>This page is plain HTML; the toolbar fragment is injected before the closing body tag.</p>
<ul>
<li><a href="/compressed">gzip-compressed page</a></li>
<li><a href="/stream">chunked streaming (passed through)</a></li>
<li><a href="/api/time">JSON API (passed through)</a></li>
</ul>
</body>
</html>
`

const compressedPage = `<!DOCTYPE html>
<html>
<head><title>compressed</title></head>
<body>
<h1>gzip-compressed page</h1>
<p>The origin compressed this response; the toolbar decompressed it, injected
its fragment, and re-emitted it with corrected headers.</p>
</body>
</html>
`

// Demo holds the demo endpoints.
type Demo struct {
	logger *slog.Logger
}

// NewDemo creates the demo handler set.
func NewDemo(logger *slog.Logger) *Demo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Demo{logger: logger}
}

// Home serves an uncompressed HTML page, the simplest injection target.
func (d *Demo) Home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(homePage))
}

// Compressed serves a gzip-encoded HTML page so the decompression cascade
// has real work to do.
func (d *Demo) Compressed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Encoding", "gzip")

	zw := gzip.NewWriter(w)
	if _, err := zw.Write([]byte(compressedPage)); err != nil {
		d.logger.ErrorContext(r.Context(), "writing compressed page",
			slog.Any("error", err))
	}
	if err := zw.Close(); err != nil {
		d.logger.ErrorContext(r.Context(), "closing gzip writer",
			slog.Any("error", err))
	}
}

// Stream serves a chunked text/plain response. Not HTML, so the toolbar
// passes every chunk straight through and flushing still works.
func (d *Demo) Stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	flusher, canFlush := w.(http.Flusher)
	for i := 1; i <= 5; i++ {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(200 * time.Millisecond):
		}
		fmt.Fprintf(w, "chunk %d\n", i)
		if canFlush {
			flusher.Flush()
		}
	}
}

// Time serves a small JSON payload, a non-HTML pass-through fixture.
func (d *Demo) Time(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	fmt.Fprintf(w, `{"now":%q}`, time.Now().Format(time.RFC3339Nano))
}

// Panic always panics, exercising the recovery middleware.
func (d *Demo) Panic(_ http.ResponseWriter, _ *http.Request) {
	panic("demo panic endpoint")
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (d *Demo) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
