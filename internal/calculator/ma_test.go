package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktui/internal/model"
)

func TestMovingAverage(t *testing.T) {
	closes := []float64{10, 20, 30, 40, 50}

	pts, err := MovingAverage(closes, 3)
	require.NoError(t, err)
	require.Len(t, pts, len(closes))

	assert.False(t, pts[0].Valid)
	assert.False(t, pts[1].Valid)
	assert.Equal(t, Point{Value: 20, Valid: true}, pts[2])
	assert.Equal(t, Point{Value: 30, Valid: true}, pts[3])
	assert.Equal(t, Point{Value: 40, Valid: true}, pts[4])
}

func TestMovingAverage_WindowOne(t *testing.T) {
	closes := []float64{1.5, 2.5, 3.5}
	pts, err := MovingAverage(closes, 1)
	require.NoError(t, err)
	for i, p := range pts {
		assert.True(t, p.Valid)
		assert.Equal(t, closes[i], p.Value)
	}
}

func TestMovingAverage_ValidityBoundary(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	for _, window := range Windows {
		pts, err := MovingAverage(closes, window)
		require.NoError(t, err)
		require.Len(t, pts, len(closes))
		for i, p := range pts {
			if i < window-1 {
				assert.False(t, p.Valid, "window %d index %d", window, i)
			} else {
				assert.True(t, p.Valid, "window %d index %d", window, i)
			}
		}
	}
}

func TestMovingAverage_WindowLargerThanInput(t *testing.T) {
	pts, err := MovingAverage([]float64{1, 2}, 5)
	require.NoError(t, err)
	for _, p := range pts {
		assert.False(t, p.Valid)
	}
}

func TestMovingAverage_BadWindow(t *testing.T) {
	_, err := MovingAverage([]float64{1}, 0)
	assert.Error(t, err)
	_, err = MovingAverage([]float64{1}, -3)
	assert.Error(t, err)
}

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-9)

	_, err = SMA([]float64{1, 2}, 3)
	assert.Error(t, err)
}

func TestCloses(t *testing.T) {
	bars := []model.CandleBar{
		{Time: time.Now(), Close: 10.5},
		{Time: time.Now(), Close: 11.5},
	}
	assert.Equal(t, []float64{10.5, 11.5}, Closes(bars))
}
