package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gosales/internal/domain"
)

// RatePollerConfig configures a RatePoller.
type RatePollerConfig struct {
	Source   RateSource
	Cache    RateCache // optional
	Logger   zerolog.Logger
	Observer Observer
	Interval time.Duration
	CacheTTL time.Duration
}

// RatePoller keeps the latest exchange rate, refetching it on a fixed
// interval. A failed fetch leaves the previous rate, or none, in place.
type RatePoller struct {
	source   RateSource
	cache    RateCache
	logger   zerolog.Logger
	observer Observer
	interval time.Duration
	cacheTTL time.Duration

	mu   sync.RWMutex
	rate *domain.ExchangeRate
}

// NewRatePoller creates a new RatePoller.
func NewRatePoller(cfg RatePollerConfig) *RatePoller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRateInterval
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultRateCacheTTL
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}

	return &RatePoller{
		source:   cfg.Source,
		cache:    cfg.Cache,
		logger:   cfg.Logger.With().Str("component", "rate-poller").Logger(),
		observer: cfg.Observer,
		interval: cfg.Interval,
		cacheTTL: cfg.CacheTTL,
	}
}

// Start polls until ctx is cancelled. It seeds the rate from the cache, then
// fetches immediately and on every tick.
func (p *RatePoller) Start(ctx context.Context) error {
	p.logger.Info().Dur("interval", p.interval).Msg("exchange rate poller started")

	p.loadCached(ctx)
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("exchange rate poller shutting down")
			return ctx.Err()
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh fetches the rate once. It reports whether a new rate was stored.
func (p *RatePoller) Refresh(ctx context.Context) bool {
	rate, err := p.source.FetchRate(ctx)
	if err != nil {
		p.observer.RateFetched(false)
		p.logger.Error().Err(err).Msg("failed to fetch exchange rate")
		return false
	}
	p.observer.RateFetched(true)

	p.set(rate)
	p.logger.Debug().Str("sell", rate.Sell.String()).Msg("exchange rate updated")

	if p.cache != nil {
		if err := p.cache.SetRate(ctx, rate, p.cacheTTL); err != nil {
			p.logger.Warn().Err(err).Msg("failed to cache exchange rate")
		}
	}
	return true
}

// Current returns the last known rate, or nil.
func (p *RatePoller) Current() *domain.ExchangeRate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.rate == nil {
		return nil
	}
	r := *p.rate
	return &r
}

// SellRate returns the selling rate, or nil while unavailable.
func (p *RatePoller) SellRate() *decimal.Decimal {
	r := p.Current()
	if r == nil {
		return nil
	}
	return &r.Sell
}

func (p *RatePoller) loadCached(ctx context.Context) {
	if p.cache == nil {
		return
	}
	rate, err := p.cache.GetRate(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to read cached exchange rate")
		return
	}
	if rate != nil {
		p.set(rate)
	}
}

func (p *RatePoller) set(rate *domain.ExchangeRate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = rate
}
