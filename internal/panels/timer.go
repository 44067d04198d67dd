package panels

import (
	"net/http"
	"time"
)

// TimerPanel measures wall time from the moment the wrapped handler is
// entered until the response is complete.
type TimerPanel struct {
	start   time.Time
	elapsed time.Duration
}

// NewTimerPanel is a Factory for TimerPanel.
func NewTimerPanel() Panel {
	return &TimerPanel{}
}

func (p *TimerPanel) Name() string  { return "timer" }
func (p *TimerPanel) Title() string { return "Time" }

func (p *TimerPanel) OnRequest(_ *http.Request) {
	p.start = time.Now()
}

func (p *TimerPanel) OnResponse(_ int, _ http.Header) {
	p.elapsed = time.Since(p.start)
}

func (p *TimerPanel) Stats() Stats {
	return Stats{
		"elapsed_ms": float64(p.elapsed.Microseconds()) / 1000.0,
	}
}
