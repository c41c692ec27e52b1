package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stocktui/internal/app"
	"stocktui/internal/event"
	"stocktui/internal/model"
	"stocktui/internal/quote"
)

func TestTranslateKeys(t *testing.T) {
	tests := []struct {
		name string
		in   tcell.Event
		want event.Event
	}{
		{
			"rune",
			tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
			event.Event{Type: event.TypeKey, Key: event.KeyPress{Rune: 'q'}},
		},
		{
			"enter",
			tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
			event.Event{Type: event.TypeKey, Key: event.KeyPress{Special: event.KeyEnter}},
		},
		{
			"escape",
			tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			event.Event{Type: event.TypeKey, Key: event.KeyPress{Special: event.KeyEsc}},
		},
		{
			"ctrl-c",
			tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
			event.Event{Type: event.TypeKey, Key: event.KeyPress{Rune: 'c', Ctrl: true}},
		},
		{
			"page down",
			tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone),
			event.Event{Type: event.TypeKey, Key: event.KeyPress{Special: event.KeyPgDn}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateIgnoresUnknownEvents(t *testing.T) {
	_, ok := translate(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone))
	assert.False(t, ok)
}

func newSimRenderer(t *testing.T, w, h int) *Renderer {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(w, h)
	t.Cleanup(sim.Fini)
	return &Renderer{screen: sim}
}

func drawApp(t *testing.T) *app.App {
	t.Helper()
	m := &quote.MockFetcher{
		Quotes: map[string]*model.Quote{
			"sh600519": {
				Symbol: "sh600519", Name: "贵州茅台",
				Open: 1731.5, PrevClose: 1732, Current: 1755, High: 1760, Low: 1728,
				Volume: 25432100, Turnover: 4.45e10, Date: "2025-02-11", Time: "15:00:00",
			},
		},
		Candles: candleFixture(30),
	}
	a := app.New(m, []string{"sh600519"}, model.Daily, 120, nil, zap.NewNop())
	a.RefreshAll()
	return a
}

func candleFixture(n int) []model.CandleBar {
	bars := make([]model.CandleBar, n)
	for i := range bars {
		p := 1700 + float64(i)
		bars[i] = model.CandleBar{
			Open: p, High: p + 5, Low: p - 5, Close: p + 2, Volume: 1000,
		}
	}
	return bars
}

// Rendering correctness is eyeballed; these just pin down that every
// mode draws without panicking and leaves the chart width behind for
// the cursor math.
func TestDrawAllModes(t *testing.T) {
	r := newSimRenderer(t, 100, 30)
	a := drawApp(t)

	r.Draw(a)
	assert.Greater(t, a.ChartWidth, 0)

	a.ViewMode = model.ViewFullscreenChart
	r.Draw(a)
	assert.Equal(t, 100, a.ChartWidth)

	a.ViewMode = model.ViewNormal
	a.InputMode = model.ModeAddSymbol
	a.InputBuffer = "sz000858"
	r.Draw(a)

	a.InputMode = model.ModeHelp
	r.Draw(a)
}

func TestDrawTinyScreen(t *testing.T) {
	r := newSimRenderer(t, 10, 3)
	r.Draw(drawApp(t))
}

func TestDrawWithCursor(t *testing.T) {
	r := newSimRenderer(t, 100, 30)
	a := drawApp(t)
	r.Draw(a)

	visible := a.VisibleCandleCount(a.ChartWidth)
	a.CursorLeft(visible)
	r.Draw(a)
}
