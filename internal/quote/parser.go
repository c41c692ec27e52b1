package quote

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"

	"stocktui/internal/model"
)

// The realtime endpoint serves GBK. decodeGBK converts to UTF-8; if the
// bytes are not valid GBK the raw bytes are kept as a best effort rather
// than failing the whole record.
func decodeGBK(raw []byte) string {
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// numField parses one numeric field. Malformed fields become 0.0 so a
// single bad field never aborts the record; this mirrors the upstream
// contract where empty fields are common outside trading hours.
func numField(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseQuote decodes and parses a single-symbol realtime response.
//
// The payload looks like:
//
//	var hq_str_sh600519="贵州茅台,1731.500,1732.000,...";
//
// Field positions inside the quotes are fixed by the service:
// 0=name, 1=open, 2=prev close, 3=current, 4=high, 5=low, 8=volume,
// 9=turnover, 30=date, 31=time.
func ParseQuote(symbol string, raw []byte) (*model.Quote, error) {
	return parseQuoteText(symbol, decodeGBK(raw))
}

func parseQuoteText(symbol, text string) (*model.Quote, error) {
	start := strings.Index(text, `"`)
	end := strings.LastIndex(text, `"`)
	if start < 0 || end <= start {
		return nil, fmt.Errorf("quote response for %s: no quoted payload", symbol)
	}
	data := text[start+1 : end]
	if data == "" {
		return nil, fmt.Errorf("quote response for %s: %w", symbol, ErrEmptyPayload)
	}

	fields := strings.Split(data, ",")
	if len(fields) < minQuoteFields {
		return nil, &FieldCountError{Want: minQuoteFields, Got: len(fields)}
	}

	return &model.Quote{
		Symbol:    symbol,
		Name:      fields[0],
		Open:      numField(fields[1]),
		PrevClose: numField(fields[2]),
		Current:   numField(fields[3]),
		High:      numField(fields[4]),
		Low:       numField(fields[5]),
		Volume:    numField(fields[8]),
		Turnover:  numField(fields[9]),
		Date:      fields[30],
		Time:      fields[31],
	}, nil
}

// ParseQuotes parses a batch realtime response, one hq_str line per
// requested symbol. Parse failures are isolated per symbol: the second
// map carries errors for the symbols that failed, everything else is
// returned in the first map.
func ParseQuotes(symbols []string, raw []byte) (map[string]*model.Quote, map[string]error) {
	text := decodeGBK(raw)
	lines := strings.Split(text, ";")

	quotes := make(map[string]*model.Quote, len(symbols))
	errs := make(map[string]error)
	for _, sym := range symbols {
		marker := "hq_str_" + sym + "="
		line := ""
		for _, l := range lines {
			if strings.Contains(l, marker) {
				line = l
				break
			}
		}
		if line == "" {
			errs[sym] = fmt.Errorf("quote response: no record for %s", sym)
			continue
		}
		q, err := parseQuoteText(sym, line)
		if err != nil {
			errs[sym] = err
			continue
		}
		quotes[sym] = q
	}
	return quotes, errs
}

// candleRecord is the upstream kline JSON shape. All values arrive as
// strings.
type candleRecord struct {
	Day    string `json:"day"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// ParseCandles parses a kline response into a candle series sorted
// ascending by timestamp with duplicate timestamps dropped. Records whose
// timestamp cannot be parsed are skipped rather than failing the series;
// the skip count is returned so the caller can log it. Numeric fields
// follow the same default-to-zero rule as the realtime parser.
func ParseCandles(tf model.TimeFrame, raw []byte) ([]model.CandleBar, int, error) {
	var records []candleRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, 0, fmt.Errorf("decode kline response: %w", err)
	}

	bars := make([]model.CandleBar, 0, len(records))
	skipped := 0
	for _, rec := range records {
		ts, err := parseBarTime(tf, rec.Day)
		if err != nil {
			skipped++
			continue
		}
		bars = append(bars, model.CandleBar{
			Time:   ts,
			Open:   numField(rec.Open),
			High:   numField(rec.High),
			Low:    numField(rec.Low),
			Close:  numField(rec.Close),
			Volume: numField(rec.Volume),
		})
	}

	// Stable so the first record wins when the feed repeats a timestamp.
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	deduped := bars[:0]
	for _, b := range bars {
		if len(deduped) > 0 && b.Time.Equal(deduped[len(deduped)-1].Time) {
			skipped++
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped, skipped, nil
}

func parseBarTime(tf model.TimeFrame, day string) (time.Time, error) {
	layout := "2006-01-02"
	if tf.Intraday() {
		layout = "2006-01-02 15:04:05"
	}
	if ts, err := time.ParseInLocation(layout, day, time.Local); err == nil {
		return ts, nil
	}
	// Some scales report the other granularity; accept either before
	// giving up on the record.
	for _, l := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.ParseInLocation(l, day, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized bar time %q", day)
}
