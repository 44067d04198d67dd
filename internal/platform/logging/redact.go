package logging

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders is the canonical set of HTTP header names (lowercase)
// that carry credentials and must be redacted before they are logged or
// stored. The toolbar captures headers from arbitrary observed requests, so
// this set is shared between the masq log-redaction layer and the request
// panel's header snapshot.
var SensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"cookie":              true,
	"set-cookie":          true,
}

// Redacted replaces a sensitive header value in panel snapshots.
const Redacted = "[REDACTED]"

// bearerPattern matches "Bearer <token>" strings that appear as raw values.
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// jwtPattern matches raw JWT strings (header.payload.signature). Requires at
// least 10 characters per segment to avoid false positives on short
// dot-separated strings like version numbers.
var jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)

// fixedRedactOptions is the number of masq options beyond the dynamic
// SensitiveHeaders set (2 field names + 2 regexes).
const fixedRedactOptions = 4

// newRedactAttr returns a masq-powered ReplaceAttr function for use in
// slog.HandlerOptions. It redacts by field name for known sensitive fields
// and by regex for values that escape call-site redaction.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, fixedRedactOptions+len(SensitiveHeaders))

	// Sensitive header names shared with the request panel.
	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),

		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
	)

	return masq.New(opts...)
}

// RedactHeaderMap flattens an http.Header into a map suitable for storage in
// a panel record. Headers named in SensitiveHeaders have their values
// replaced with Redacted; all others are kept as-is. Multi-value headers are
// joined with a comma.
func RedactHeaderMap(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for key, vals := range headers {
		if SensitiveHeaders[strings.ToLower(key)] {
			out[key] = Redacted
			continue
		}
		out[key] = strings.Join(vals, ",")
	}
	return out
}
