// Package exchange fetches the official foreign-exchange rate.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/domain"
)

// DefaultSunatURL is the public SUNAT rate endpoint.
const DefaultSunatURL = "https://api.apis.net.pe/v1/tipo-cambio-sunat"

// ClientConfig configures the SUNAT client.
type ClientConfig struct {
	URL string
	// HTTPClient is an optional custom HTTP client (for testing).
	HTTPClient *http.Client
	Timeout    time.Duration
	// MaxAttempts bounds retries on transport errors and 5xx responses.
	MaxAttempts uint64
	Now         func() time.Time
}

// SunatClient implements usecase.RateSource.
type SunatClient struct {
	httpClient  *http.Client
	url         string
	maxAttempts uint64
	retryDelay  time.Duration
	now         func() time.Time
}

// NewSunatClient creates a new SunatClient.
func NewSunatClient(cfg ClientConfig) *SunatClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	url := cfg.URL
	if url == "" {
		url = DefaultSunatURL
	}
	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = 3
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &SunatClient{
		httpClient:  httpClient,
		url:         url,
		maxAttempts: attempts,
		retryDelay:  500 * time.Millisecond,
		now:         now,
	}
}

type sunatResponse struct {
	Buy    decimal.NullDecimal `json:"compra"`
	Sell   decimal.NullDecimal `json:"venta"`
	Origin string              `json:"origen"`
	Date   string              `json:"fecha"`
}

// FetchRate fetches the current selling and buying rates.
func (c *SunatClient) FetchRate(ctx context.Context) (*domain.ExchangeRate, error) {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), c.maxAttempts-1)

	body, err := backoff.RetryWithData(func() (*sunatResponse, error) {
		return c.fetch(ctx)
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}

	if !body.Sell.Valid || !body.Sell.Decimal.IsPositive() {
		return nil, fmt.Errorf("%w: response has no selling rate", domain.ErrRateUnavailable)
	}

	rate := &domain.ExchangeRate{
		Sell:      body.Sell.Decimal,
		FetchedAt: c.now().UTC(),
	}
	if body.Buy.Valid {
		rate.Buy = body.Buy.Decimal
	}
	return rate, nil
}

func (c *SunatClient) fetch(ctx context.Context) (*sunatResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("%w: status %d", domain.ErrRateUnavailable, resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var body sunatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: invalid response: %v", domain.ErrRateUnavailable, err))
	}
	return &body, nil
}
