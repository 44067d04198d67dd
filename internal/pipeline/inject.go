package pipeline

import "bytes"

// Inject splices fragment into body immediately before the last occurrence
// of marker. When the marker is absent the fragment is appended instead.
// This is a single linear scan with no HTML parsing: correctness here is
// best-effort marker insertion, not HTML-semantic correctness.
func Inject(body, fragment []byte, marker string) []byte {
	if len(fragment) == 0 {
		return body
	}

	idx := -1
	if marker != "" {
		idx = bytes.LastIndex(body, []byte(marker))
	}

	out := make([]byte, 0, len(body)+len(fragment))
	if idx < 0 {
		out = append(out, body...)
		return append(out, fragment...)
	}
	out = append(out, body[:idx]...)
	out = append(out, fragment...)
	return append(out, body[idx:]...)
}
