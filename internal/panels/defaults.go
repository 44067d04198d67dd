package panels

// Defaults returns the factory list for the built-in panel set, in the order
// the panels appear in the rendered toolbar.
func Defaults() []Factory {
	return []Factory{
		NewTimerPanel,
		NewRequestPanel,
		NewVersionsPanel,
		NewTracePanel,
	}
}
