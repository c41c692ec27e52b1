package quote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"stocktui/internal/model"
)

const (
	defaultRealtimeURL = "http://hq.sinajs.cn/list="
	defaultKlineURL    = "http://money.finance.sina.com.cn/quotes_service/api/json_v2.php/CN_MarketData.getKLineData"

	// The service rejects requests without a finance referer.
	refererHeader = "http://finance.sina.com.cn"

	maxFetchRetries = 2
)

// Client implements Fetcher against the Sina finance endpoints.
// Parsing stays in the pure parser functions; the client owns transport,
// retry and logging.
type Client struct {
	RealtimeURL string
	KlineURL    string
	HTTPClient  *http.Client

	logger *zap.Logger
}

// NewClient creates a client with optional proxy support.
func NewClient(proxyURL string, logger *zap.Logger) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		RealtimeURL: defaultRealtimeURL,
		KlineURL:    defaultKlineURL,
		HTTPClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		logger: logger,
	}
}

func (c *Client) Name() string { return "sina" }

// get performs one GET with retry. Retries use exponential backoff and
// stop when the context is cancelled.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Referer", refererHeader)

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchRetries), ctx)
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("fetch retry",
			zap.String("url", endpoint), zap.Duration("wait", wait), zap.Error(err))
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}

// FetchQuotes fetches realtime quotes for all symbols in one request
// using the comma-separated list parameter.
func (c *Client) FetchQuotes(ctx context.Context, symbols []string) (map[string]*model.Quote, map[string]error, error) {
	if len(symbols) == 0 {
		return map[string]*model.Quote{}, map[string]error{}, nil
	}
	raw, err := c.get(ctx, c.RealtimeURL+strings.Join(symbols, ","))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch quotes: %w", err)
	}
	quotes, errs := ParseQuotes(symbols, raw)
	return quotes, errs, nil
}

// FetchCandles fetches the kline series for one symbol and timeframe.
func (c *Client) FetchCandles(ctx context.Context, symbol string, tf model.TimeFrame, count int) ([]model.CandleBar, error) {
	endpoint := fmt.Sprintf("%s?symbol=%s&scale=%d&ma=no&datalen=%d",
		c.KlineURL, url.QueryEscape(symbol), tf.Scale(), count)
	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	bars, skipped, err := ParseCandles(tf, raw)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("skipped malformed candle records",
			zap.String("symbol", symbol), zap.Stringer("timeframe", tf), zap.Int("skipped", skipped))
	}
	return bars, nil
}
