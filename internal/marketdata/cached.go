package marketdata

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/pkg/logger"
	"github.com/wonny/stockscore/pkg/redis"
)

// CachedProvider caches fetched market data in Redis.
// Cache failures are logged and never fail a fetch.
// ⭐ SSOT: 시세/재무 캐시는 여기서만 (점수는 캐시하지 않음)
type CachedProvider struct {
	next   contracts.MarketDataProvider
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedProvider wraps next with a Redis cache
func NewCachedProvider(next contracts.MarketDataProvider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}
	return &CachedProvider{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// FetchDailyHistory returns the cached series or fetches and stores it
func (p *CachedProvider) FetchDailyHistory(ctx context.Context, symbol string, period contracts.Period) (*contracts.PriceSeries, error) {
	key := redis.HistoryKey(cacheSymbol(symbol), string(period))

	var cached contracts.PriceSeries
	if p.load(ctx, key, &cached) {
		return &cached, nil
	}

	series, err := p.next.FetchDailyHistory(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	// empty series are not cached; a symbol may start trading later today
	if !series.Empty() {
		p.store(ctx, key, series)
	}
	return series, nil
}

// FetchFundamentals returns the cached snapshot or fetches and stores it
func (p *CachedProvider) FetchFundamentals(ctx context.Context, symbol string) (*contracts.FundamentalsSnapshot, error) {
	key := redis.FundamentalsKey(cacheSymbol(symbol))

	var cached contracts.FundamentalsSnapshot
	if p.load(ctx, key, &cached) {
		return &cached, nil
	}

	snapshot, err := p.next.FetchFundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if snapshot != nil {
		p.store(ctx, key, snapshot)
	}
	return snapshot, nil
}

func (p *CachedProvider) load(ctx context.Context, key string, dest interface{}) bool {
	if !p.cache.Enabled() {
		return false
	}

	hit, err := p.cache.Get(ctx, key, dest)
	if errors.Is(err, redis.ErrCacheCorrupt) {
		p.logger.WithError(err).WithField("key", key).Warn("Dropping corrupt market data cache entry")
		if delErr := p.cache.Delete(ctx, key); delErr != nil {
			p.logger.WithError(delErr).WithField("key", key).Warn("Market data cache delete failed")
		}
		return false
	}
	if err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Market data cache read failed")
		return false
	}
	if hit {
		p.logger.WithField("key", key).Debug("Market data cache hit")
	}
	return hit
}

func (p *CachedProvider) store(ctx context.Context, key string, value interface{}) {
	if !p.cache.Enabled() {
		return
	}

	if err := p.cache.Set(ctx, key, value, p.ttl); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Market data cache write failed")
	}
}

func cacheSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
