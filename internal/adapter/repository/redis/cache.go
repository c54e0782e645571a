package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/domain"
)

const rateKey = "exchange-rate:sunat"

// RateCache implements usecase.RateCache using Redis.
type RateCache struct {
	client *redis.Client
	prefix string
}

// NewRateCache creates a new RateCache.
func NewRateCache(client *redis.Client) *RateCache {
	return &RateCache{
		client: client,
		prefix: "gosales:cache:",
	}
}

type cachedRate struct {
	Sell      decimal.Decimal `json:"sell"`
	Buy       decimal.Decimal `json:"buy"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// GetRate returns the cached rate, or nil when none is cached.
func (c *RateCache) GetRate(ctx context.Context) (*domain.ExchangeRate, error) {
	raw, err := c.client.Get(ctx, c.prefix+rateKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var v cachedRate
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode cached rate: %w", err)
	}
	return &domain.ExchangeRate{Sell: v.Sell, Buy: v.Buy, FetchedAt: v.FetchedAt}, nil
}

// SetRate stores rate with ttl.
func (c *RateCache) SetRate(ctx context.Context, rate *domain.ExchangeRate, ttl time.Duration) error {
	raw, err := json.Marshal(cachedRate{Sell: rate.Sell, Buy: rate.Buy, FetchedAt: rate.FetchedAt})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+rateKey, raw, ttl).Err()
}
