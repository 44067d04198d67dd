package pipeline

import (
	"strconv"
	"strings"
)

// RewriteHeaders finalizes the header list for a re-emitted response whose
// body is bodyLen bytes. Any declared Content-Length is replaced with a fresh
// one. When the body was rewritten (decoded and injected), Content-Encoding
// and Transfer-Encoding are dropped as well: the emitted response is a single
// complete uncompressed body and the old framing no longer applies.
//
// Everything else passes through untouched, duplicates and order preserved.
func RewriteHeaders(headers []Header, bodyLen int, bodyRewritten bool) []Header {
	out := make([]Header, 0, len(headers)+1)
	for _, h := range headers {
		if strings.EqualFold(h.Name, "Content-Length") {
			continue
		}
		if bodyRewritten &&
			(strings.EqualFold(h.Name, "Content-Encoding") ||
				strings.EqualFold(h.Name, "Transfer-Encoding")) {
			continue
		}
		out = append(out, h)
	}
	return append(out, Header{Name: "Content-Length", Value: strconv.Itoa(bodyLen)})
}
