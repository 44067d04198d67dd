package panels

import (
	"net/http"
	"runtime"
)

// Version is the toolbar release version, surfaced by the versions panel and
// the toolbar fragment.
const Version = "0.1.0"

// VersionsPanel reports the runtime environment the observed application is
// running under. It collects nothing per-request.
type VersionsPanel struct{}

// NewVersionsPanel is a Factory for VersionsPanel.
func NewVersionsPanel() Panel {
	return &VersionsPanel{}
}

func (p *VersionsPanel) Name() string  { return "versions" }
func (p *VersionsPanel) Title() string { return "Versions" }

func (p *VersionsPanel) OnRequest(_ *http.Request)       {}
func (p *VersionsPanel) OnResponse(_ int, _ http.Header) {}

func (p *VersionsPanel) Stats() Stats {
	return Stats{
		"go":       runtime.Version(),
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
		"toolbar":  Version,
	}
}
