package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"stocktui/internal/app"
	"stocktui/internal/calculator"
	"stocktui/internal/model"
)

// A-share convention: red for up, green for down.
var (
	styleDefault = tcell.StyleDefault
	styleUp      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleDown    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleMA      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

const watchlistWidth = 22

// Renderer owns the terminal screen.
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer initializes the terminal (raw mode, alternate screen).
// Failure here is the only fatal error class in the program.
func NewRenderer() (*Renderer, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.SetStyle(styleDefault)
	return &Renderer{screen: s}, nil
}

// Screen exposes the underlying screen for the input poller.
func (r *Renderer) Screen() tcell.Screen { return r.screen }

// Fini restores the terminal. Safe to call on every exit path.
func (r *Renderer) Fini() { r.screen.Fini() }

// Draw renders one frame from the app snapshot.
func (r *Renderer) Draw(a *app.App) {
	s := r.screen
	s.Clear()
	w, h := s.Size()
	if w < 20 || h < 8 {
		r.putText(0, 0, styleDefault, "terminal too small")
		s.Show()
		return
	}

	if a.InputMode == model.ModeHelp {
		r.drawHelp(w, h)
		s.Show()
		return
	}

	if a.ViewMode == model.ViewFullscreenChart {
		a.ChartWidth = w
		r.drawChart(a, 0, 0, w-1, h-2)
	} else {
		chartRight := w - watchlistWidth - 1
		a.ChartWidth = chartRight + 1
		r.drawHeader(a, 0, 0, chartRight)
		r.drawChart(a, 0, 5, chartRight, h-2)
		r.drawWatchlist(a, w-watchlistWidth, 0, w-1, h-2)
	}
	r.drawStatus(a, w, h)
	s.Show()
}

func (r *Renderer) drawHeader(a *app.App, x0, y0, x1 int) {
	sym := a.ActiveSymbol()
	q := a.CurrentQuote()
	if q == nil {
		r.putText(x0, y0, styleTitle, sym)
		r.putText(x0, y0+1, styleDim, "no quote data")
		r.hline(x0, x1, y0+4)
		return
	}

	x := r.putText(x0, y0, styleTitle, fmt.Sprintf("%s %s", q.Name, q.Symbol))
	r.putText(x+2, y0, styleDim, fmt.Sprintf("%s %s  [%s]", q.Date, q.Time, a.TimeFrame.Label()))

	st := styleUp
	if q.Change() < 0 {
		st = styleDown
	}
	pct := "--"
	if p, ok := q.ChangePercent(); ok {
		pct = fmt.Sprintf("%+.2f%%", p)
	}
	r.putText(x0, y0+1, st.Bold(true),
		fmt.Sprintf("%.2f  %+.2f (%s)", q.Current, q.Change(), pct))

	r.putText(x0, y0+2, styleDefault,
		fmt.Sprintf("open %.2f  high %.2f  low %.2f  prev %.2f", q.Open, q.High, q.Low, q.PrevClose))
	r.putText(x0, y0+3, styleDefault,
		fmt.Sprintf("vol %s  turnover %s", q.VolumeDisplay(), q.TurnoverDisplay()))
	r.hline(x0, x1, y0+4)
}

func (r *Renderer) drawChart(a *app.App, x0, y0, x1, y1 int) {
	chartWidth := x1 - x0 + 1
	visible := a.VisibleCandleCount(chartWidth)
	if visible <= 0 || len(a.Candles) == 0 {
		r.putText(x0, y0, styleDim, "no candle data")
		return
	}
	start := a.VisibleStart(visible)
	bars := a.Candles[start : start+visible]

	lo, hi := bars[0].Low, bars[0].High
	for _, b := range bars {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	if hi <= lo {
		hi = lo + 1
	}

	top, bottom := y0+1, y1
	rows := bottom - top + 1
	if rows < 2 {
		return
	}
	rowOf := func(p float64) int {
		y := bottom - int((p-lo)/(hi-lo)*float64(rows-1)+0.5)
		if y < top {
			y = top
		}
		if y > bottom {
			y = bottom
		}
		return y
	}

	r.drawChartTitle(a, x0, y0, start, visible)

	// Price axis
	r.putText(x0, top, styleDim, fmt.Sprintf("%9.2f", hi))
	r.putText(x0, (top+bottom)/2, styleDim, fmt.Sprintf("%9.2f", (hi+lo)/2))
	r.putText(x0, bottom, styleDim, fmt.Sprintf("%9.2f", lo))

	gx0 := x0 + 12
	for i, b := range bars {
		gx := gx0 + i*3
		if gx+1 > x1 {
			break
		}
		st := styleUp
		if !b.Bullish() {
			st = styleDown
		}
		if i == a.ChartCursor {
			st = st.Reverse(true)
		}

		bodyTop := rowOf(maxf(b.Open, b.Close))
		bodyBot := rowOf(minf(b.Open, b.Close))
		for y := rowOf(b.High); y <= rowOf(b.Low); y++ {
			r.screen.SetContent(gx, y, '│', nil, st)
		}
		for y := bodyTop; y <= bodyBot; y++ {
			r.screen.SetContent(gx, y, '█', nil, st)
			r.screen.SetContent(gx+1, y, '█', nil, st)
		}
	}

	// Moving-average dots in the gap column between candles.
	for _, win := range calculator.Windows {
		pts := a.Overlays[win]
		for i := 0; i < visible && start+i < len(pts); i++ {
			pt := pts[start+i]
			if !pt.Valid {
				continue
			}
			gx := gx0 + i*3 + 2
			if gx > x1 {
				break
			}
			r.screen.SetContent(gx, rowOf(pt.Value), '·', nil, styleMA)
		}
	}
}

func (r *Renderer) drawChartTitle(a *app.App, x0, y0, start, visible int) {
	x := r.putText(x0, y0, styleTitle, fmt.Sprintf("%s %s ", a.ActiveSymbol(), a.TimeFrame.Label()))

	last := start + visible - 1
	for _, win := range calculator.Windows {
		pts := a.Overlays[win]
		if last < len(pts) && pts[last].Valid {
			x = r.putText(x, y0, styleMA, fmt.Sprintf(" MA%d %.2f", win, pts[last].Value))
		}
	}

	if b, ok := a.CursorCandle(a.ChartWidth); ok {
		layout := "2006-01-02"
		if a.TimeFrame.Intraday() {
			layout = "01-02 15:04"
		}
		r.putText(x+2, y0, styleDim, fmt.Sprintf("%s O:%.2f H:%.2f L:%.2f C:%.2f",
			b.Time.Format(layout), b.Open, b.High, b.Low, b.Close))
	}
}

func (r *Renderer) drawWatchlist(a *app.App, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		r.screen.SetContent(x0, y, '│', nil, styleDim)
	}
	r.putText(x0+2, y0, styleTitle, "watchlist")

	for i, sym := range a.Watchlist {
		y := y0 + 1 + i
		if y > y1 {
			break
		}
		marker := "  "
		if i == a.Active {
			marker = "▶ "
		}
		label := sym
		pct := ""
		st := styleDefault
		if q := a.Quotes[i]; q != nil {
			label = q.Name
			if p, ok := q.ChangePercent(); ok {
				pct = fmt.Sprintf("%+.2f%%", p)
				if p >= 0 {
					st = styleUp
				} else {
					st = styleDown
				}
			}
		}
		rowStyle := st
		if i == a.Highlight {
			rowStyle = st.Reverse(true)
		}
		text := fmt.Sprintf("%s%-8s %7s", marker, runewidth.Truncate(label, 8, ""), pct)
		r.putText(x0+1, y, rowStyle, runewidth.Truncate(text, x1-x0, ""))
	}
}

func (r *Renderer) drawStatus(a *app.App, w, h int) {
	y := h - 1
	if a.InputMode == model.ModeAddSymbol {
		x := r.putText(0, y, styleTitle, "add> ")
		x = r.putText(x, y, styleDefault, a.InputBuffer)
		r.screen.SetContent(x, y, '▌', nil, styleDefault)
		return
	}
	r.putText(0, y, styleDim, runewidth.Truncate(a.StatusMessage, w-16, "…"))
	hint := "?:help  q:quit"
	r.putText(w-runewidth.StringWidth(hint), y, styleDim, hint)
}

func (r *Renderer) drawHelp(w, h int) {
	lines := []string{
		"stocktui keys",
		"",
		"  j/k ↑/↓     select symbol",
		"  Enter       activate / toggle fullscreen",
		"  h/l ←/→     chart cursor",
		"  PgUp/PgDn   scroll chart",
		"  1-7         timeframe (5m 15m 30m 60m 1D 1W 1M)",
		"  a           add symbol",
		"  d           delete symbol",
		"  r           refresh now",
		"  f           fullscreen chart",
		"  ?           toggle this help",
		"  q / Esc     quit",
	}
	y0 := (h - len(lines)) / 2
	if y0 < 0 {
		y0 = 0
	}
	for i, l := range lines {
		x0 := (w - runewidth.StringWidth(l)) / 2
		if x0 < 0 {
			x0 = 0
		}
		st := styleDefault
		if i == 0 {
			st = styleTitle
		}
		r.putText(x0, y0+i, st, l)
	}
}

// putText writes a string and returns the x position after it.
func (r *Renderer) putText(x, y int, st tcell.Style, s string) int {
	for _, c := range s {
		r.screen.SetContent(x, y, c, nil, st)
		x += runewidth.RuneWidth(c)
	}
	return x
}

func (r *Renderer) hline(x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		r.screen.SetContent(x, y, '─', nil, styleDim)
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
