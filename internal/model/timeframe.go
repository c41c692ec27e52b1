package model

import "fmt"

// TimeFrame selects the bucket width for a candle series.
type TimeFrame int

const (
	Min5 TimeFrame = iota
	Min15
	Min30
	Min60
	Daily
	Weekly
	Monthly
)

// Scale returns the upstream API scale parameter (minutes per bar).
func (tf TimeFrame) Scale() int {
	switch tf {
	case Min5:
		return 5
	case Min15:
		return 15
	case Min30:
		return 30
	case Min60:
		return 60
	case Daily:
		return 240
	case Weekly:
		return 1200
	case Monthly:
		return 7200
	default:
		panic(fmt.Sprintf("unknown timeframe %d", int(tf)))
	}
}

// Label returns the display label for the timeframe.
func (tf TimeFrame) Label() string {
	switch tf {
	case Min5:
		return "5m"
	case Min15:
		return "15m"
	case Min30:
		return "30m"
	case Min60:
		return "60m"
	case Daily:
		return "1D"
	case Weekly:
		return "1W"
	case Monthly:
		return "1M"
	default:
		panic(fmt.Sprintf("unknown timeframe %d", int(tf)))
	}
}

// Intraday reports whether the timeframe is minute-scale. Intraday bars
// carry a full timestamp on the wire, daily and coarser only a date.
func (tf TimeFrame) Intraday() bool {
	switch tf {
	case Min5, Min15, Min30, Min60:
		return true
	case Daily, Weekly, Monthly:
		return false
	default:
		panic(fmt.Sprintf("unknown timeframe %d", int(tf)))
	}
}

func (tf TimeFrame) String() string { return tf.Label() }

// TimeFrames lists all variants in key order (keys 1-7).
func TimeFrames() []TimeFrame {
	return []TimeFrame{Min5, Min15, Min30, Min60, Daily, Weekly, Monthly}
}

// ParseTimeFrame maps a config label back to a TimeFrame. Accepts the
// display labels produced by Label.
func ParseTimeFrame(s string) (TimeFrame, error) {
	for _, tf := range TimeFrames() {
		if tf.Label() == s {
			return tf, nil
		}
	}
	return Daily, fmt.Errorf("unknown timeframe %q", s)
}
