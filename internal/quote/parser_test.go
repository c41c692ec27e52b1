package quote

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"stocktui/internal/model"
)

const sampleResponse = `var hq_str_sh600519="贵州茅台,1731.500,1732.000,1755.000,1760.000,1728.000,1754.980,1755.000,25432100,44539876543.000,100,1754.980,200,1754.970,300,1754.960,400,1754.950,500,1754.940,100,1755.000,200,1755.010,300,1755.020,400,1755.030,500,1755.040,2025-02-11,15:00:00,00,";`

// record builds a quote payload with the given field overrides applied
// to an otherwise valid 33-field record.
func record(overrides map[int]string) string {
	fields := make([]string, 33)
	for i := range fields {
		fields[i] = "1.0"
	}
	fields[0] = "测试股票"
	fields[30] = "2025-02-11"
	fields[31] = "15:00:00"
	for i, v := range overrides {
		fields[i] = v
	}
	return fmt.Sprintf("var hq_str_sh000001=\"%s\";", strings.Join(fields, ","))
}

func TestParseQuote(t *testing.T) {
	q, err := ParseQuote("sh600519", []byte(sampleResponse))
	require.NoError(t, err)

	assert.Equal(t, "sh600519", q.Symbol)
	assert.Equal(t, "贵州茅台", q.Name)
	assert.Equal(t, 1731.5, q.Open)
	assert.Equal(t, 1732.0, q.PrevClose)
	assert.Equal(t, 1755.0, q.Current)
	assert.Equal(t, 1760.0, q.High)
	assert.Equal(t, 1728.0, q.Low)
	assert.Equal(t, 25432100.0, q.Volume)
	assert.Equal(t, "2025-02-11", q.Date)
	assert.Equal(t, "15:00:00", q.Time)

	// change must be the exact subtraction of the parsed fields
	assert.Equal(t, q.Current-q.PrevClose, q.Change())
}

func TestParseQuote_GBKBytes(t *testing.T) {
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(sampleResponse))
	require.NoError(t, err)

	q, err := ParseQuote("sh600519", raw)
	require.NoError(t, err)
	assert.Equal(t, "贵州茅台", q.Name)
	assert.Equal(t, 1755.0, q.Current)
}

func TestParseQuote_FieldCount(t *testing.T) {
	raw := `var hq_str_sh600519="a,1,2,3,4";`
	_, err := ParseQuote("sh600519", []byte(raw))
	require.Error(t, err)

	var fce *FieldCountError
	require.ErrorAs(t, err, &fce)
	assert.Equal(t, 5, fce.Got)
	assert.Equal(t, minQuoteFields, fce.Want)
}

func TestParseQuote_EmptyPayload(t *testing.T) {
	_, err := ParseQuote("sh000000", []byte(`var hq_str_sh000000="";`))
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestParseQuote_MalformedNumericDefaultsToZero(t *testing.T) {
	raw := record(map[int]string{1: "garbage", 3: "1755.0"})
	q, err := ParseQuote("sh000001", []byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.Open, "malformed numeric field defaults to zero")
	assert.Equal(t, 1755.0, q.Current)
	assert.Equal(t, "测试股票", q.Name, "name is taken verbatim")
}

func TestParseQuotes_PerSymbolIsolation(t *testing.T) {
	raw := sampleResponse + "\n" + `var hq_str_sh000000="";`

	quotes, errs := ParseQuotes([]string{"sh600519", "sh000000"}, []byte(raw))
	require.Contains(t, quotes, "sh600519")
	assert.Equal(t, 1755.0, quotes["sh600519"].Current)
	assert.ErrorIs(t, errs["sh000000"], ErrEmptyPayload)
	assert.NotContains(t, quotes, "sh000000")
}

func TestParseQuotes_MissingRecord(t *testing.T) {
	quotes, errs := ParseQuotes([]string{"sh600519", "sz999999"}, []byte(sampleResponse))
	assert.Len(t, quotes, 1)
	assert.Error(t, errs["sz999999"])
}

func TestParseCandles(t *testing.T) {
	raw := `[
		{"day":"2025-02-12","open":"10.0","high":"11.0","low":"9.5","close":"10.5","volume":"1000"},
		{"day":"2025-02-10","open":"9.0","high":"10.2","low":"8.9","close":"10.0","volume":"900"},
		{"day":"not a date","open":"1","high":"1","low":"1","close":"1","volume":"1"},
		{"day":"2025-02-11","open":"10.0","high":"10.6","low":"9.8","close":"10.1","volume":"oops"},
		{"day":"2025-02-11","open":"99.0","high":"99.0","low":"99.0","close":"99.0","volume":"99"}
	]`
	bars, skipped, err := ParseCandles(model.Daily, []byte(raw))
	require.NoError(t, err)

	// one unparsable timestamp and one duplicate dropped
	assert.Equal(t, 2, skipped)
	require.Len(t, bars, 3)

	// ascending order
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i-1].Time.Before(bars[i].Time))
	}
	// malformed volume defaults to zero, first record wins on duplicates
	assert.Equal(t, 0.0, bars[1].Volume)
	assert.Equal(t, 10.1, bars[1].Close)
}

func TestParseCandles_Intraday(t *testing.T) {
	raw := `[{"day":"2025-02-11 14:55:00","open":"10","high":"11","low":"9","close":"10.5","volume":"100"}]`
	bars, skipped, err := ParseCandles(model.Min5, []byte(raw))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, bars, 1)
	assert.Equal(t, 14, bars[0].Time.Hour())
}

func TestParseCandles_BadJSON(t *testing.T) {
	_, _, err := ParseCandles(model.Daily, []byte("<html>rate limited</html>"))
	assert.Error(t, err)
}

func TestDecodeGBK_InvalidBytesFallBack(t *testing.T) {
	// 0xff 0xff is not valid GBK; the decoder must not fail the record.
	raw := append([]byte(`var hq_str_x="`), 0xff, 0xff)
	raw = append(raw, []byte(`,1,2,3,4";`)...)
	got := decodeGBK(raw)
	assert.Contains(t, got, "hq_str_x", "undecodable bytes fall back to a best-effort string")
}
