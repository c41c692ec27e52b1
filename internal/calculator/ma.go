package calculator

import (
	"errors"

	"stocktui/internal/model"
)

// Windows are the moving-average windows shown on the chart.
var Windows = []int{5, 10, 20, 30}

// Point is one moving-average sample. Valid is false while there is not
// yet enough history to fill the window.
type Point struct {
	Value float64
	Valid bool
}

// MovingAverage computes the simple moving average of closes over the given
// window. The result has the same length as the input: entries at index
// < window-1 are invalid, entry i >= window-1 is the arithmetic mean of
// closes[i-window+1 ... i].
//
// Zero closes (the parser substitutes 0.0 for malformed numeric fields) and
// NaN/Inf inputs propagate into the averages unchanged.
func MovingAverage(closes []float64, window int) ([]Point, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]Point, len(closes))
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = Point{Value: sum / float64(window), Valid: true}
		}
	}
	return out, nil
}

// SMA computes the simple moving average of the trailing period of prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// Closes extracts the close column from a candle series.
func Closes(bars []model.CandleBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
