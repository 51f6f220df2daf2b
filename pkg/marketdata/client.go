// Package marketdata fetches a reference price from an external ticker
// endpoint. It is a collaborator of the engine, never a dependency of the
// matching path.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     uint64 `yaml:"max_retries"`
}

// Quote is one ticker response, e.g.
// {"symbol":"BTCUSDT","price":"43250.10"}.
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

type Client struct {
	baseURL    string
	maxRetries uint64
	httpClient *http.Client
}

func NewClient(cfg *Config) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetTicker fetches the latest reference price for symbol, retrying with
// exponential backoff on transient failures.
func (c *Client) GetTicker(ctx context.Context, symbol string) (*Quote, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, symbol)

	var quote Quote
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ticker request failed with status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&quote)
	}

	boff := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, boff); err != nil {
		zap.S().Warnf("get ticker %s fail: %v", symbol, err)
		return nil, err
	}

	if !quote.Price.IsPositive() {
		return nil, fmt.Errorf("ticker %s returned non-positive price %s", symbol, quote.Price)
	}

	zap.S().Debugf("ticker %s price=%s", quote.Symbol, quote.Price)
	return &quote, nil
}
