package pipeline

import (
	"log/slog"

	"github.com/JacobCoffee/debug-toolbar/internal/encoding"
)

// Pipeline turns a complete captured response into the single start+body
// pair that gets emitted downstream. It owns the decode-inject-rewrite
// sequence; the capture and eligibility steps live with the caller because
// they run while the response is still streaming in.
type Pipeline struct {
	registry *encoding.Registry
	marker   string
	logger   *slog.Logger
}

// New creates a Pipeline. insertBefore is the injection marker, typically
// the closing body tag.
func New(registry *encoding.Registry, insertBefore string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		registry: registry,
		marker:   insertBefore,
		logger:   logger,
	}
}

// Finalize reverses the captured response's encoding stack, injects fragment
// into the plaintext body, and rewrites the headers to match. The returned
// bool reports whether the body was actually rewritten; when it is false the
// returned events replay the original response byte for byte, which is the
// outcome for every decode failure.
func (p *Pipeline) Finalize(c *Capture, fragment []byte) (StartEvent, BodyEvent, bool) {
	body := c.Body()

	stack := encoding.ParseStack(HeaderJoined(c.Headers(), "Content-Encoding"))

	res := encoding.Decode(p.registry, stack, body, p.logger)
	if !res.Decoded {
		start, final := p.Passthrough(c)
		return start, final, false
	}

	injected := Inject(res.Body, fragment, p.marker)
	start := StartEvent{
		Status:  c.Status(),
		Headers: RewriteHeaders(c.Headers(), len(injected), true),
	}
	return start, BodyEvent{Data: injected}, true
}

// Passthrough returns events that replay the captured response unmodified:
// original status, original headers, original body bytes. It is the terminal
// fallback for every condition under which the response cannot be safely
// rewritten.
func (p *Pipeline) Passthrough(c *Capture) (StartEvent, BodyEvent) {
	return StartEvent{Status: c.Status(), Headers: c.Headers()},
		BodyEvent{Data: c.Body()}
}
