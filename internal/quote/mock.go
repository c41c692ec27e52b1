package quote

import (
	"context"

	"stocktui/internal/model"
)

// MockFetcher returns controllable fixed data for development and tests.
type MockFetcher struct {
	Quotes    map[string]*model.Quote
	QuoteErrs map[string]error
	Err       error

	Candles    []model.CandleBar
	CandlesErr error

	QuoteCalls  int
	CandleCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuotes(_ context.Context, symbols []string) (map[string]*model.Quote, map[string]error, error) {
	m.QuoteCalls++
	if m.Err != nil {
		return nil, nil, m.Err
	}
	quotes := make(map[string]*model.Quote, len(symbols))
	errs := make(map[string]error)
	for _, sym := range symbols {
		if err, ok := m.QuoteErrs[sym]; ok {
			errs[sym] = err
			continue
		}
		if q, ok := m.Quotes[sym]; ok {
			quotes[sym] = q
		}
	}
	return quotes, errs, nil
}

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, _ model.TimeFrame, count int) ([]model.CandleBar, error) {
	m.CandleCalls++
	if m.CandlesErr != nil {
		return nil, m.CandlesErr
	}
	if len(m.Candles) > count {
		return m.Candles[len(m.Candles)-count:], nil
	}
	return m.Candles, nil
}
