package panels

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// TracePanel surfaces the OpenTelemetry trace and span identifiers active on
// the request context, when a tracer is installed and the request was
// sampled. With no tracing configured it reports recorded=false.
type TracePanel struct {
	traceID string
	spanID  string
	sampled bool
	valid   bool
}

// NewTracePanel is a Factory for TracePanel.
func NewTracePanel() Panel {
	return &TracePanel{}
}

func (p *TracePanel) Name() string  { return "trace" }
func (p *TracePanel) Title() string { return "Trace" }

func (p *TracePanel) OnRequest(r *http.Request) {
	sc := trace.SpanContextFromContext(r.Context())
	if !sc.IsValid() {
		return
	}
	p.valid = true
	p.traceID = sc.TraceID().String()
	p.spanID = sc.SpanID().String()
	p.sampled = sc.IsSampled()
}

func (p *TracePanel) OnResponse(_ int, _ http.Header) {}

func (p *TracePanel) Stats() Stats {
	if !p.valid {
		return Stats{"recorded": false}
	}
	return Stats{
		"recorded": true,
		"trace_id": p.traceID,
		"span_id":  p.spanID,
		"sampled":  p.sampled,
	}
}
