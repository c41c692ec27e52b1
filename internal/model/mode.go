package model

// InputMode is the keyboard dispatch mode.
type InputMode int

const (
	// ModeNormal is regular browsing.
	ModeNormal InputMode = iota
	// ModeAddSymbol collects a new watchlist symbol in the input buffer.
	ModeAddSymbol
	// ModeHelp shows the key binding overlay.
	ModeHelp
)

// ViewMode selects the screen layout.
type ViewMode int

const (
	// ViewNormal shows quote header, chart and watchlist panels.
	ViewNormal ViewMode = iota
	// ViewFullscreenChart dedicates the whole screen to the chart.
	ViewFullscreenChart
)
