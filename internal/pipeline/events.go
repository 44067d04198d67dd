// Package pipeline implements the response interception pipeline: a capture
// state machine over start/body response events, an eligibility gate decided
// from headers alone, marker-based fragment injection, and header rewriting.
//
// The pipeline is deliberately transport-agnostic. A response is a sequence
// of events: exactly one StartEvent followed by one or more BodyEvents, the
// last of which has More set to false. The net/http middleware in the root
// package translates ResponseWriter calls into these events and replays the
// pipeline's output onto the real connection; tests drive the pipeline with
// events directly.
package pipeline

import "strings"

// Header is a single declared response header. Headers are kept as an ordered
// list rather than a map so duplicates survive in declaration order.
type Header struct {
	Name  string
	Value string
}

// StartEvent is the head of a response: status code plus declared headers.
type StartEvent struct {
	Status  int
	Headers []Header
}

// BodyEvent is one chunk of a response body. More reports whether further
// chunks follow; the final chunk of every response has More false and may
// carry empty Data.
type BodyEvent struct {
	Data []byte
	More bool
}

// HeaderValue returns the first value of the named header, matched
// case-insensitively, and whether it was present at all.
func HeaderValue(headers []Header, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// HeaderJoined returns every value of the named header joined with commas,
// in declaration order. RFC 9110 treats repeated header lines as equivalent
// to one comma-joined line, which matters for list-valued headers like
// Content-Encoding.
func HeaderJoined(headers []Header, name string) string {
	var vals []string
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			vals = append(vals, h.Value)
		}
	}
	return strings.Join(vals, ",")
}
