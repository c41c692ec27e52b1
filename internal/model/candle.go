package model

import "time"

// CandleBar is a single OHLCV observation for one time bucket.
type CandleBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Bullish reports whether the bar closed at or above its open.
func (c CandleBar) Bullish() bool {
	return c.Close >= c.Open
}
