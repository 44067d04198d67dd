package pipeline

import "errors"

// Protocol violations raised by the capture state machine. They are fatal for
// the response being captured, never for the process: the caller degrades to
// passing through whatever was captured before the violation.
var (
	ErrDoubleStart       = errors.New("response start received twice")
	ErrBodyBeforeStart   = errors.New("response body received before start")
	ErrBodyAfterComplete = errors.New("response body received after final chunk")
)

type captureState int

const (
	stateIdle captureState = iota
	stateHeadersReceived
	stateBuffering
	stateComplete
)

// Capture owns the lifecycle of one in-flight response. It accumulates the
// events the wrapped application emits until the body is complete, at which
// point the buffered response can be finalized or replayed.
//
// A Capture is exclusively owned by the task handling its request and is
// never shared; it needs no locking.
type Capture struct {
	state   captureState
	status  int
	headers []Header
	chunks  [][]byte
	size    int64
}

func NewCapture() *Capture {
	return &Capture{}
}

// OnStart records the status and headers from the response start event.
// A second start on the same response is a protocol violation.
func (c *Capture) OnStart(ev StartEvent) error {
	if c.state != stateIdle {
		return ErrDoubleStart
	}
	c.state = stateHeadersReceived
	c.status = ev.Status
	c.headers = ev.Headers
	return nil
}

// OnBody appends one body chunk. The chunk data is retained as-is, so callers
// that reuse write buffers must hand over a copy. A chunk with More false
// completes the capture atomically; anything after that is a violation.
func (c *Capture) OnBody(ev BodyEvent) error {
	switch c.state {
	case stateIdle:
		return ErrBodyBeforeStart
	case stateComplete:
		return ErrBodyAfterComplete
	}

	c.state = stateBuffering
	if len(ev.Data) > 0 {
		c.chunks = append(c.chunks, ev.Data)
		c.size += int64(len(ev.Data))
	}
	if !ev.More {
		c.state = stateComplete
	}
	return nil
}

// Started reports whether the start event has been observed.
func (c *Capture) Started() bool {
	return c.state != stateIdle
}

// Complete reports whether the final body chunk has been observed.
func (c *Capture) Complete() bool {
	return c.state == stateComplete
}

func (c *Capture) Status() int {
	return c.status
}

func (c *Capture) Headers() []Header {
	return c.headers
}

// Size is the total byte length buffered so far.
func (c *Capture) Size() int64 {
	return c.size
}

// Body concatenates the buffered chunks into one contiguous slice. The
// chunks themselves are never mutated.
func (c *Capture) Body() []byte {
	if len(c.chunks) == 1 {
		return c.chunks[0]
	}
	out := make([]byte, 0, c.size)
	for _, chunk := range c.chunks {
		out = append(out, chunk...)
	}
	return out
}

// Chunks returns the buffered chunks in arrival order, for callers that
// replay the original stream instead of finalizing it.
func (c *Capture) Chunks() [][]byte {
	return c.chunks
}

// Release drops the buffered body. Every exit path of the owning request must
// call it so no buffer outlives the request.
func (c *Capture) Release() {
	c.chunks = nil
	c.size = 0
}
