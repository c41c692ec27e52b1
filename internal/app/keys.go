package app

import (
	"stocktui/internal/event"
	"stocktui/internal/model"
)

// handleKey dispatches a key press according to the current input mode.
// Every mode handles the full key set it accepts; unknown keys are
// ignored.
func (a *App) handleKey(k event.KeyPress) {
	switch a.InputMode {
	case model.ModeNormal:
		a.handleNormalKey(k)
	case model.ModeAddSymbol:
		a.handleAddKey(k)
	case model.ModeHelp:
		a.handleHelpKey(k)
	}
}

func (a *App) handleNormalKey(k event.KeyPress) {
	visible := a.VisibleCandleCount(a.ChartWidth)

	if k.Ctrl && k.Rune == 'c' {
		a.ShouldQuit = true
		return
	}

	switch k.Special {
	case event.KeyEsc:
		// Cursor active: clear it. Fullscreen: leave it. Otherwise quit.
		switch {
		case a.ChartCursor >= 0:
			a.ChartCursor = -1
		case a.ViewMode == model.ViewFullscreenChart:
			a.ToggleFullscreen()
		default:
			a.ShouldQuit = true
		}
		return
	case event.KeyEnter:
		a.Activate()
		return
	case event.KeyUp:
		if a.ViewMode == model.ViewNormal {
			a.SelectPrev()
		}
		return
	case event.KeyDown:
		if a.ViewMode == model.ViewNormal {
			a.SelectNext()
		}
		return
	case event.KeyLeft:
		a.CursorLeft(visible)
		return
	case event.KeyRight:
		a.CursorRight(visible)
		return
	case event.KeyPgUp:
		a.ScrollChartLeft()
		return
	case event.KeyPgDn:
		a.ScrollChartRight()
		return
	}

	switch k.Rune {
	case 'q':
		a.ShouldQuit = true
	case 'f':
		a.ToggleFullscreen()
	case 'k':
		if a.ViewMode == model.ViewNormal {
			a.SelectPrev()
		}
	case 'j':
		if a.ViewMode == model.ViewNormal {
			a.SelectNext()
		}
	case 'h':
		a.CursorLeft(visible)
	case 'l':
		a.CursorRight(visible)
	case 'a':
		a.StartAddSymbol()
	case 'd':
		if a.ViewMode == model.ViewNormal {
			a.DeleteSelected()
		}
	case 'r':
		a.StatusMessage = "refreshing..."
		a.RefreshAll()
	case '?':
		a.InputMode = model.ModeHelp
	default:
		if tf, ok := timeframeKey(k.Rune); ok {
			a.SetTimeFrame(tf)
		}
	}
}

func (a *App) handleAddKey(k event.KeyPress) {
	switch k.Special {
	case event.KeyEnter:
		a.ConfirmAddSymbol()
		return
	case event.KeyEsc:
		a.CancelInput()
		return
	case event.KeyBackspace:
		if r := []rune(a.InputBuffer); len(r) > 0 {
			a.InputBuffer = string(r[:len(r)-1])
		}
		return
	}
	if k.Rune != 0 && !k.Ctrl {
		a.InputBuffer += string(k.Rune)
	}
}

func (a *App) handleHelpKey(k event.KeyPress) {
	if k.Special == event.KeyEsc || k.Rune == '?' || k.Rune == 'q' {
		a.InputMode = model.ModeNormal
		return
	}
	// Timeframe keys work from the help overlay and drop back to the
	// normal mode.
	if tf, ok := timeframeKey(k.Rune); ok {
		a.SetTimeFrame(tf)
		a.InputMode = model.ModeNormal
	}
}

// timeframeKey maps the 1-7 keys onto the timeframe enum. The mapping
// covers every variant exactly once, in TimeFrames order.
func timeframeKey(r rune) (model.TimeFrame, bool) {
	frames := model.TimeFrames()
	if r < '1' || r > rune('0'+len(frames)) {
		return model.Daily, false
	}
	return frames[r-'1'], true
}
