package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stocktui/internal/calculator"
	"stocktui/internal/event"
	"stocktui/internal/model"
	"stocktui/internal/quote"
)

// candleWidth is the number of screen columns one candle occupies.
const candleWidth = 3

// Persist saves the current watchlist and default timeframe. Called
// after every watchlist mutation and timeframe switch.
type Persist func(watchlist []string, tf model.TimeFrame) error

// App owns all mutable dashboard state. It is the single consumer of
// the event stream; every mutation happens on the consumer goroutine,
// so no locking is needed. Fetches run synchronously on that goroutine
// by design, blocking the render loop for their duration.
type App struct {
	fetcher quote.Fetcher
	logger  *zap.Logger
	persist Persist

	ShouldQuit bool

	Watchlist []string
	Quotes    []*model.Quote // parallel to Watchlist; nil = no known quote
	Highlight int            // highlighted watchlist row
	Active    int            // symbol shown in the detail/chart panels

	TimeFrame model.TimeFrame
	Candles   []model.CandleBar
	Overlays  map[int][]calculator.Point // moving averages keyed by window

	InputMode   model.InputMode
	ViewMode    model.ViewMode
	InputBuffer string

	ChartOffset int // horizontal scroll, bars from the right edge
	ChartCursor int // index into visible bars, -1 when inactive
	ChartWidth  int // last rendered chart width, set by the renderer

	StatusMessage string
	Loading       bool

	CandleCount int
}

// New creates the dashboard state from the persisted watchlist. No
// fetch happens here; the caller triggers the initial refresh.
func New(fetcher quote.Fetcher, watchlist []string, tf model.TimeFrame, candleCount int, persist Persist, logger *zap.Logger) *App {
	return &App{
		fetcher:       fetcher,
		logger:        logger,
		persist:       persist,
		Watchlist:     append([]string(nil), watchlist...),
		Quotes:        make([]*model.Quote, len(watchlist)),
		TimeFrame:     tf,
		Overlays:      map[int][]calculator.Point{},
		ChartCursor:   -1,
		StatusMessage: "loading...",
		Loading:       true,
		CandleCount:   candleCount,
	}
}

// HandleEvent applies one event to the state machine.
func (a *App) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.TypeKey:
		a.handleKey(ev.Key)
	case event.TypeTick:
		a.RefreshQuotes()
	case event.TypeRefresh:
		a.RefreshAll()
	case event.TypeResize:
		// The loop redraws after every event; nothing to update here.
	}
}

// CurrentQuote returns the active symbol's quote, or nil if the last
// fetch failed or no fetch has happened yet.
func (a *App) CurrentQuote() *model.Quote {
	if a.Active < 0 || a.Active >= len(a.Quotes) {
		return nil
	}
	return a.Quotes[a.Active]
}

// ActiveSymbol returns the active symbol, or "" for an empty watchlist.
func (a *App) ActiveSymbol() string {
	if a.Active < 0 || a.Active >= len(a.Watchlist) {
		return ""
	}
	return a.Watchlist[a.Active]
}

// RefreshAll synchronously refreshes all quotes and the active candle
// series.
func (a *App) RefreshAll() {
	a.RefreshQuotes()
	a.RefreshCandles()
	a.Loading = false
}

// RefreshQuotes fetches realtime quotes for the whole watchlist in one
// batch request. Failures are isolated per symbol: a failed symbol's
// entry goes absent and the status line records the error while the
// other symbols update normally. A transport failure of the whole batch
// keeps every last-known quote.
func (a *App) RefreshQuotes() {
	if len(a.Watchlist) == 0 {
		a.Quotes = nil
		return
	}
	cycle := uuid.NewString()[:8]

	quotes, errs, err := a.fetcher.FetchQuotes(context.Background(), a.Watchlist)
	if err != nil {
		a.StatusMessage = fmt.Sprintf("refresh failed: %v", err)
		a.logger.Error("quote refresh failed", zap.String("cycle", cycle), zap.Error(err))
		return
	}

	failed := false
	for i, sym := range a.Watchlist {
		if q, ok := quotes[sym]; ok {
			a.Quotes[i] = q
			continue
		}
		a.Quotes[i] = nil
		if perr, ok := errs[sym]; ok {
			failed = true
			a.StatusMessage = fmt.Sprintf("%s: %v", sym, perr)
			a.logger.Warn("quote parse failed",
				zap.String("cycle", cycle), zap.String("symbol", sym), zap.Error(perr))
		}
	}

	// Keep the error visible on the status line when any symbol failed.
	if q := a.CurrentQuote(); q != nil && !failed {
		a.StatusMessage = fmt.Sprintf("%s %s updated %s %s", q.Symbol, q.Name, q.Date, q.Time)
	}
	a.logger.Debug("quotes refreshed",
		zap.String("cycle", cycle), zap.Int("symbols", len(a.Watchlist)))
}

// RefreshCandles fetches the active symbol's candle series for the
// current timeframe and recomputes the moving-average overlays.
func (a *App) RefreshCandles() {
	sym := a.ActiveSymbol()
	if sym == "" {
		a.Candles = nil
		a.Overlays = map[int][]calculator.Point{}
		return
	}

	bars, err := a.fetcher.FetchCandles(context.Background(), sym, a.TimeFrame, a.CandleCount)
	if err != nil {
		a.StatusMessage = fmt.Sprintf("candles for %s: %v", sym, err)
		a.logger.Warn("candle refresh failed", zap.String("symbol", sym), zap.Error(err))
		a.Candles = nil
		a.Overlays = map[int][]calculator.Point{}
		return
	}

	a.Candles = bars
	a.ChartOffset = 0
	a.ChartCursor = -1
	a.Overlays = map[int][]calculator.Point{}
	closes := calculator.Closes(bars)
	for _, w := range calculator.Windows {
		pts, err := calculator.MovingAverage(closes, w)
		if err != nil {
			continue
		}
		a.Overlays[w] = pts
	}
}

// SelectPrev moves the watchlist highlight up with wraparound.
func (a *App) SelectPrev() {
	if len(a.Watchlist) == 0 {
		return
	}
	if a.Highlight == 0 {
		a.Highlight = len(a.Watchlist) - 1
	} else {
		a.Highlight--
	}
}

// SelectNext moves the watchlist highlight down with wraparound.
func (a *App) SelectNext() {
	if len(a.Watchlist) == 0 {
		return
	}
	if a.Highlight >= len(a.Watchlist)-1 {
		a.Highlight = 0
	} else {
		a.Highlight++
	}
}

// Activate makes the highlighted symbol active and fetches its candles.
// If it is already active, Enter toggles fullscreen instead.
func (a *App) Activate() {
	if a.Highlight != a.Active {
		a.Active = a.Highlight
		a.StatusMessage = "loading..."
		a.RefreshCandles()
		return
	}
	a.ToggleFullscreen()
}

// SetTimeFrame switches the candle timeframe. The cached series belongs
// to the old timeframe, so a switch forces a refetch.
func (a *App) SetTimeFrame(tf model.TimeFrame) {
	if a.TimeFrame == tf {
		return
	}
	a.TimeFrame = tf
	a.RefreshCandles()
	a.savePreferences()
}

// ToggleFullscreen flips between the normal layout and fullscreen chart.
func (a *App) ToggleFullscreen() {
	if a.ViewMode == model.ViewNormal {
		a.ViewMode = model.ViewFullscreenChart
	} else {
		a.ViewMode = model.ViewNormal
	}
}

// VisibleCandleCount returns how many bars fit the given chart width.
func (a *App) VisibleCandleCount(chartWidth int) int {
	inner := chartWidth - 12 // border plus price axis
	if inner < 0 {
		inner = 0
	}
	n := inner / candleWidth
	if n > len(a.Candles) {
		n = len(a.Candles)
	}
	return n
}

// ScrollChartLeft scrolls the chart toward older bars.
func (a *App) ScrollChartLeft() {
	if a.ChartOffset+10 < len(a.Candles) {
		a.ChartOffset += 5
	}
	a.ChartCursor = -1
}

// ScrollChartRight scrolls the chart toward newer bars.
func (a *App) ScrollChartRight() {
	if a.ChartOffset >= 5 {
		a.ChartOffset -= 5
	} else {
		a.ChartOffset = 0
	}
	a.ChartCursor = -1
}

// CursorLeft moves the chart cursor left, activating it on the newest
// visible bar first.
func (a *App) CursorLeft(maxVisible int) {
	if a.ChartCursor < 0 {
		a.activateCursor(maxVisible)
		return
	}
	if a.ChartCursor > 0 {
		a.ChartCursor--
	}
}

// CursorRight moves the chart cursor right.
func (a *App) CursorRight(maxVisible int) {
	if a.ChartCursor < 0 {
		a.activateCursor(maxVisible)
		return
	}
	limit := maxVisible
	if limit > len(a.Candles) {
		limit = len(a.Candles)
	}
	if a.ChartCursor < limit-1 {
		a.ChartCursor++
	}
}

func (a *App) activateCursor(maxVisible int) {
	if len(a.Candles) == 0 {
		return
	}
	last := maxVisible
	if last > len(a.Candles) {
		last = len(a.Candles)
	}
	if last > 0 {
		a.ChartCursor = last - 1
	}
}

// VisibleStart returns the index of the first visible bar for the given
// visible count and current scroll offset.
func (a *App) VisibleStart(visible int) int {
	if len(a.Candles) > visible+a.ChartOffset {
		return len(a.Candles) - visible - a.ChartOffset
	}
	return 0
}

// CursorCandle returns the bar under the chart cursor, if any.
func (a *App) CursorCandle(chartWidth int) (model.CandleBar, bool) {
	if a.ChartCursor < 0 {
		return model.CandleBar{}, false
	}
	visible := a.VisibleCandleCount(chartWidth)
	idx := a.VisibleStart(visible) + a.ChartCursor
	if idx < 0 || idx >= len(a.Candles) {
		return model.CandleBar{}, false
	}
	return a.Candles[idx], true
}

// StartAddSymbol enters symbol input mode.
func (a *App) StartAddSymbol() {
	a.InputMode = model.ModeAddSymbol
	a.InputBuffer = ""
	a.StatusMessage = "enter symbol (sh600519/hk00700/gb_aapl), Enter to confirm, Esc to cancel"
}

// ConfirmAddSymbol validates the input buffer and appends the symbol to
// the watchlist. Adding a symbol that is already present is a no-op:
// the list length and the original position are preserved.
func (a *App) ConfirmAddSymbol() {
	defer func() { a.InputMode = model.ModeNormal }()

	symbol := strings.ToLower(strings.TrimSpace(a.InputBuffer))
	a.InputBuffer = ""
	if symbol == "" {
		a.StatusMessage = "symbol must not be empty"
		return
	}
	// US tickers use the gb_ prefix upstream.
	if strings.HasPrefix(symbol, "us") {
		symbol = "gb_" + strings.TrimPrefix(symbol, "us")
	}
	if !plausibleSymbol(symbol) {
		a.StatusMessage = "bad symbol, expected prefix sh/sz/bj, hk or gb_/us"
		return
	}
	for _, s := range a.Watchlist {
		if s == symbol {
			a.StatusMessage = fmt.Sprintf("%s is already on the watchlist", symbol)
			return
		}
	}

	a.Watchlist = append(a.Watchlist, symbol)
	a.Quotes = append(a.Quotes, nil)

	quotes, errs, err := a.fetcher.FetchQuotes(context.Background(), []string{symbol})
	switch {
	case err != nil:
		a.StatusMessage = fmt.Sprintf("added %s, quote fetch failed: %v", symbol, err)
	case errs[symbol] != nil:
		a.StatusMessage = fmt.Sprintf("added %s, quote fetch failed: %v", symbol, errs[symbol])
	default:
		q := quotes[symbol]
		a.Quotes[len(a.Quotes)-1] = q
		a.StatusMessage = fmt.Sprintf("added %s %s", q.Symbol, q.Name)
	}
	// Persist even when the first fetch failed: the symbol is on the
	// list now.
	a.savePreferences()
}

// CancelInput discards the input buffer and returns to normal mode.
func (a *App) CancelInput() {
	a.InputMode = model.ModeNormal
	a.InputBuffer = ""
	a.StatusMessage = "cancelled"
}

// DeleteSelected removes the highlighted symbol. The last remaining
// symbol cannot be removed.
func (a *App) DeleteSelected() {
	if len(a.Watchlist) <= 1 {
		a.StatusMessage = "keep at least one symbol"
		return
	}
	idx := a.Highlight
	removed := a.Watchlist[idx]
	a.Watchlist = append(a.Watchlist[:idx], a.Watchlist[idx+1:]...)
	a.Quotes = append(a.Quotes[:idx], a.Quotes[idx+1:]...)
	a.StatusMessage = fmt.Sprintf("removed %s", removed)

	if a.Highlight >= len(a.Watchlist) {
		a.Highlight = len(a.Watchlist) - 1
	}
	a.Active = a.Highlight

	a.savePreferences()
	a.RefreshCandles()
}

func (a *App) savePreferences() {
	if a.persist == nil {
		return
	}
	if err := a.persist(a.Watchlist, a.TimeFrame); err != nil {
		a.StatusMessage = fmt.Sprintf("save config: %v", err)
		a.logger.Error("persist watchlist", zap.Error(err))
	}
}

// plausibleSymbol checks the exchange prefix and that the rest looks
// like a ticker.
func plausibleSymbol(s string) bool {
	for _, prefix := range []string{"sh", "sz", "bj", "hk", "gb_"} {
		rest, ok := strings.CutPrefix(s, prefix)
		if !ok || rest == "" {
			continue
		}
		return true
	}
	return false
}
