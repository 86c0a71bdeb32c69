package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/internal/external/yahoo"
	"github.com/wonny/stockscore/internal/marketdata"
	"github.com/wonny/stockscore/internal/scheduler"
	"github.com/wonny/stockscore/internal/scheduler/jobs"
	"github.com/wonny/stockscore/internal/scoring"
	"github.com/wonny/stockscore/pkg/config"
	"github.com/wonny/stockscore/pkg/httputil"
	"github.com/wonny/stockscore/pkg/logger"
	"github.com/wonny/stockscore/pkg/redis"
)

const redisPrefix = "stockscore"

// services holds the wired scoring stack shared by the api and score commands
type services struct {
	redis       *redis.Client
	provider    contracts.MarketDataProvider
	technical   *scoring.TechnicalScorer
	fundamental *scoring.FundamentalScorer
	scan        *scoring.ScanScorer
}

// newServices connects Redis (optional) and builds the Yahoo-backed scorers
func newServices(ctx context.Context, cfg *config.Config, log *logger.Logger) *services {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	redisClient, err := redis.New(connectCtx, cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without market data cache")
		redisClient = &redis.Client{}
	} else if redisClient.Enabled() {
		log.Info("Connected to Redis")
	}

	limiter := redis.NewRateLimiter(redisClient, redisPrefix)
	httpClient := httputil.New(log, cfg.Yahoo.Timeout).
		WithRetry(cfg.Yahoo.MaxRetries, 500*time.Millisecond).
		WithRateLimiter(limiter, redis.YahooRateLimit(cfg.Yahoo.RequestsPerSecond))

	yahooClient := yahoo.NewClient(httpClient, cfg.Yahoo, log)
	cache := redis.NewCache(redisClient, redisPrefix)
	provider := marketdata.NewCachedProvider(yahooClient, cache, cfg.MarketCacheTTL, log)

	return &services{
		redis:       redisClient,
		provider:    provider,
		technical:   scoring.NewTechnicalScorer(provider, log),
		fundamental: scoring.NewFundamentalScorer(provider, log),
		scan:        scoring.NewScanScorer(provider, log),
	}
}

// Close releases the Redis connection
func (s *services) Close() error {
	return s.redis.Close()
}

// newScheduler builds the job scheduler with the keep-alive job registered
// when a URL is configured
func newScheduler(cfg *config.Config, log *logger.Logger) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(cfg.KeepAlive.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load keep-alive time zone: %w", err)
	}

	sched := scheduler.New(log,
		scheduler.WithLocation(loc),
		scheduler.WithRetry(cfg.KeepAlive.Retries, cfg.KeepAlive.RetryDelay),
	)

	// the scheduler retries failed runs, so the ping itself does not
	pingClient := httputil.New(log, 30*time.Second).DisableRetry()
	if _, err := jobs.RegisterKeepAlive(sched, cfg.KeepAlive, pingClient, log); err != nil {
		return nil, fmt.Errorf("register keep-alive job: %w", err)
	}
	return sched, nil
}

// loadConfig loads configuration and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
