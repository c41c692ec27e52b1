package quote

import (
	"context"

	"stocktui/internal/model"
)

// Fetcher fetches market data for the dashboard.
//
// FetchQuotes returns per-symbol results: the error map carries symbols
// whose record could not be parsed, the returned error is reserved for
// failures of the whole request (transport, timeout).
type Fetcher interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]*model.Quote, map[string]error, error)
	FetchCandles(ctx context.Context, symbol string, tf model.TimeFrame, count int) ([]model.CandleBar, error)
	Name() string
}
