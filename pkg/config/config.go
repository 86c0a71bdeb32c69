package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata" // KEEPALIVE_TZ must resolve on slim images

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// External APIs
	Yahoo YahooConfig

	// Market data cache
	MarketCacheTTL time.Duration

	// Keep-alive ping
	KeepAlive KeepAliveConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance configuration
type YahooConfig struct {
	BaseURL           string
	StatsURL          string // key-statistics pages (HTML fallback)
	CookieURL         string
	SymbolSuffix      string // market qualifier appended to bare symbols
	Timeout           time.Duration
	RequestsPerSecond int
	MaxRetries        int // retries after a failed request
}

// KeepAliveConfig holds the self-ping job configuration
type KeepAliveConfig struct {
	URL        string
	Schedule   string
	TimeZone   string
	Retries    int // retries of a failed run before it is recorded as failed
	RetryDelay time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			BaseURL:           getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			StatsURL:          getEnv("YAHOO_STATS_URL", "https://finance.yahoo.com"),
			CookieURL:         getEnv("YAHOO_COOKIE_URL", "https://fc.yahoo.com"),
			SymbolSuffix:      getEnv("YAHOO_SYMBOL_SUFFIX", ".NS"),
			Timeout:           getEnvAsDuration("YAHOO_TIMEOUT", "10s"),
			RequestsPerSecond: getEnvAsInt("YAHOO_RPS", 5),
			MaxRetries:        getEnvAsInt("YAHOO_MAX_RETRIES", 2),
		},

		MarketCacheTTL: getEnvAsDuration("MARKET_CACHE_TTL", "10m"),

		KeepAlive: KeepAliveConfig{
			URL:        getEnv("KEEPALIVE_URL", getEnv("RENDER_URL", "")),
			Schedule:   getEnv("KEEPALIVE_SCHEDULE", "0 */10 9-16 * * *"),
			TimeZone:   getEnv("KEEPALIVE_TZ", "Asia/Kolkata"),
			Retries:    getEnvAsInt("KEEPALIVE_RETRIES", 2),
			RetryDelay: getEnvAsDuration("KEEPALIVE_RETRY_DELAY", "30s"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Yahoo.BaseURL == "" {
		return fmt.Errorf("YAHOO_BASE_URL is required")
	}

	if c.Yahoo.RequestsPerSecond <= 0 {
		return fmt.Errorf("YAHOO_RPS must be positive")
	}

	if c.Yahoo.Timeout <= 0 {
		return fmt.Errorf("YAHOO_TIMEOUT must be positive")
	}

	if c.Yahoo.MaxRetries < 0 {
		return fmt.Errorf("YAHOO_MAX_RETRIES must not be negative")
	}

	if c.KeepAlive.Retries < 0 {
		return fmt.Errorf("KEEPALIVE_RETRIES must not be negative")
	}

	if _, err := time.LoadLocation(c.KeepAlive.TimeZone); err != nil {
		return fmt.Errorf("KEEPALIVE_TZ is invalid: %w", err)
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
