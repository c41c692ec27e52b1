package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteChange(t *testing.T) {
	q := &Quote{Current: 1755.0, PrevClose: 1732.0}
	assert.Equal(t, q.Current-q.PrevClose, q.Change())

	pct, ok := q.ChangePercent()
	require.True(t, ok)
	assert.InDelta(t, 1.3279, pct, 0.001)
}

func TestQuoteChangePercent_UndefinedWithoutPrevClose(t *testing.T) {
	// New listings and suspended symbols report a zero previous close;
	// the percentage is undefined there, not zero.
	q := &Quote{Current: 10, PrevClose: 0}
	_, ok := q.ChangePercent()
	assert.False(t, ok)
}

func TestQuoteDisplayHelpers(t *testing.T) {
	q := &Quote{Volume: 25432100, Turnover: 44539876543}
	assert.Equal(t, "25.4万手", q.VolumeDisplay())
	assert.Equal(t, "445.40亿", q.TurnoverDisplay())

	small := &Quote{Volume: 120000, Turnover: 9500}
	assert.Equal(t, "1200手", small.VolumeDisplay())
	assert.Equal(t, "9500元", small.TurnoverDisplay())
}

func TestTimeFrameScale(t *testing.T) {
	tests := []struct {
		tf    TimeFrame
		scale int
		label string
	}{
		{Min5, 5, "5m"},
		{Min15, 15, "15m"},
		{Min30, 30, "30m"},
		{Min60, 60, "60m"},
		{Daily, 240, "1D"},
		{Weekly, 1200, "1W"},
		{Monthly, 7200, "1M"},
	}
	require.Len(t, tests, len(TimeFrames()), "cover every variant")
	for _, tt := range tests {
		assert.Equal(t, tt.scale, tt.tf.Scale())
		assert.Equal(t, tt.label, tt.tf.Label())
	}
}

func TestParseTimeFrameRoundTrip(t *testing.T) {
	for _, tf := range TimeFrames() {
		got, err := ParseTimeFrame(tf.Label())
		require.NoError(t, err)
		assert.Equal(t, tf, got)
	}
	_, err := ParseTimeFrame("fortnight")
	assert.Error(t, err)
}

func TestCandleBullish(t *testing.T) {
	assert.True(t, CandleBar{Open: 10, Close: 11}.Bullish())
	assert.True(t, CandleBar{Open: 10, Close: 10}.Bullish())
	assert.False(t, CandleBar{Open: 10, Close: 9}.Bullish())
}
