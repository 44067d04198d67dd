package panels

import (
	"net/http"

	"github.com/JacobCoffee/debug-toolbar/internal/platform/logging"
)

// RequestPanel snapshots the request line plus request and response headers.
// Header values whose names appear in logging.SensitiveHeaders are redacted
// before they are stored, so credentials never reach the history or the
// rendered toolbar.
type RequestPanel struct {
	method      string
	path        string
	query       string
	reqHeaders  map[string]string
	respHeaders map[string]string
	status      int
}

// NewRequestPanel is a Factory for RequestPanel.
func NewRequestPanel() Panel {
	return &RequestPanel{}
}

func (p *RequestPanel) Name() string  { return "request" }
func (p *RequestPanel) Title() string { return "Request" }

func (p *RequestPanel) OnRequest(r *http.Request) {
	p.method = r.Method
	p.path = r.URL.Path
	p.query = r.URL.RawQuery
	p.reqHeaders = logging.RedactHeaderMap(r.Header)
}

func (p *RequestPanel) OnResponse(status int, headers http.Header) {
	p.status = status
	p.respHeaders = logging.RedactHeaderMap(headers)
}

func (p *RequestPanel) Stats() Stats {
	return Stats{
		"method":           p.method,
		"path":             p.path,
		"query":            p.query,
		"status":           p.status,
		"request_headers":  p.reqHeaders,
		"response_headers": p.respHeaders,
	}
}
