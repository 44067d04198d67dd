package pipeline

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// Gate is the eligibility decision for interception, made from the request
// path and the response start event alone, before any body chunk arrives.
// Ineligible responses are streamed through untouched so they keep their
// original streaming semantics and backpressure.
type Gate struct {
	// ExcludePrefixes lists request path prefixes that are never
	// intercepted, including the toolbar's own routes.
	ExcludePrefixes []string

	// MaxBodySize caps how many body bytes may be buffered for one
	// response. Zero or negative means no cap.
	MaxBodySize int64
}

// Eligible reports whether the response beginning with ev, serving the given
// request path, should be buffered and rewritten.
func (g Gate) Eligible(path string, ev StartEvent) bool {
	for _, prefix := range g.ExcludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	// Bodyless statuses have nothing to inject into.
	if ev.Status < http.StatusOK ||
		ev.Status == http.StatusNoContent ||
		ev.Status == http.StatusNotModified {
		return false
	}

	contentType, ok := HeaderValue(ev.Headers, "Content-Type")
	if !ok {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
	default:
		return false
	}

	// A declared length over the cap means buffering would be aborted
	// mid-body anyway; skip it up front.
	if g.MaxBodySize > 0 {
		if cl, ok := HeaderValue(ev.Headers, "Content-Length"); ok {
			if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > g.MaxBodySize {
				return false
			}
		}
	}

	return true
}

// Overflow reports whether buffered bytes have passed the configured cap.
func (g Gate) Overflow(buffered int64) bool {
	return g.MaxBodySize > 0 && buffered > g.MaxBodySize
}
