package model

import "fmt"

// Quote is the latest known realtime snapshot for one symbol.
type Quote struct {
	Symbol    string
	Name      string
	Open      float64
	PrevClose float64
	Current   float64
	High      float64
	Low       float64
	Volume    float64 // shares
	Turnover  float64 // CNY
	Date      string  // trading date as reported, e.g. "2025-02-11"
	Time      string  // quote time as reported, e.g. "15:00:00"
}

// Change returns the price change versus the previous close.
func (q *Quote) Change() float64 {
	return q.Current - q.PrevClose
}

// ChangePercent returns the percent change versus the previous close.
// The second return is false when the previous close is not positive,
// in which case the percentage is undefined.
func (q *Quote) ChangePercent() (float64, bool) {
	if q.PrevClose <= 0 {
		return 0, false
	}
	return (q.Current - q.PrevClose) / q.PrevClose * 100, true
}

// VolumeDisplay formats the traded volume in lots (1 lot = 100 shares).
func (q *Quote) VolumeDisplay() string {
	lots := q.Volume / 100
	if lots >= 10000 {
		return fmt.Sprintf("%.1f万手", lots/10000)
	}
	return fmt.Sprintf("%.0f手", lots)
}

// TurnoverDisplay formats the traded value using 万/亿 units.
func (q *Quote) TurnoverDisplay() string {
	switch {
	case q.Turnover >= 1e8:
		return fmt.Sprintf("%.2f亿", q.Turnover/1e8)
	case q.Turnover >= 1e4:
		return fmt.Sprintf("%.1f万", q.Turnover/1e4)
	default:
		return fmt.Sprintf("%.0f元", q.Turnover)
	}
}
