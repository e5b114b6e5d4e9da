package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all engine settings, populated from environment variables.
type Config struct {
	BaseURL   string
	UserAgent string

	HTTPTimeout     time.Duration
	ConnectTimeout  time.Duration
	MaxConnsPerHost int
	MaxIdleConns    int

	MaxRetries         int
	RetryBaseDelay     time.Duration
	RetryBackoffFactor float64
	RetryMaxDelay      time.Duration

	RateLimitWindow time.Duration
	RateLimitMax    int

	CacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	httpTimeout, err := envDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	connectTimeout, err := envDuration("CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	maxConnsPerHost, err := envInt("MAX_CONNS_PER_HOST", 5)
	if err != nil {
		return nil, err
	}
	maxIdleConns, err := envInt("MAX_IDLE_CONNS", 10)
	if err != nil {
		return nil, err
	}
	maxRetries, err := envInt("MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	retryBaseDelay, err := envDuration("RETRY_BASE_DELAY", time.Second)
	if err != nil {
		return nil, err
	}
	retryBackoffFactor, err := envFloat("RETRY_BACKOFF_FACTOR", 2.0)
	if err != nil {
		return nil, err
	}
	retryMaxDelay, err := envDuration("RETRY_MAX_DELAY", 60*time.Second)
	if err != nil {
		return nil, err
	}
	rateLimitWindow, err := envDuration("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	rateLimitMax, err := envInt("RATE_LIMIT_MAX", 100)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := envDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:            envOrDefault("JMA_BASE_URL", "https://www.jma.go.jp/bosai"),
		UserAgent:          envOrDefault("JMA_USER_AGENT", "jma-weather/1.0 (+github.com/kumoribot/jma-weather)"),
		HTTPTimeout:        httpTimeout,
		ConnectTimeout:     connectTimeout,
		MaxConnsPerHost:    maxConnsPerHost,
		MaxIdleConns:       maxIdleConns,
		MaxRetries:         maxRetries,
		RetryBaseDelay:     retryBaseDelay,
		RetryBackoffFactor: retryBackoffFactor,
		RetryMaxDelay:      retryMaxDelay,
		RateLimitWindow:    rateLimitWindow,
		RateLimitMax:       rateLimitMax,
		CacheTTL:           cacheTTL,
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
	}

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("JMA_BASE_URL must be an absolute URL")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"HTTP_TIMEOUT", cfg.HTTPTimeout},
		{"CONNECT_TIMEOUT", cfg.ConnectTimeout},
		{"RETRY_BASE_DELAY", cfg.RetryBaseDelay},
		{"RETRY_MAX_DELAY", cfg.RetryMaxDelay},
		{"RATE_LIMIT_WINDOW", cfg.RateLimitWindow},
		{"CACHE_TTL", cfg.CacheTTL},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return nil, fmt.Errorf("%s must be positive", d.name)
		}
	}

	limits := []struct {
		name  string
		value int
	}{
		{"MAX_CONNS_PER_HOST", cfg.MaxConnsPerHost},
		{"MAX_IDLE_CONNS", cfg.MaxIdleConns},
		{"RATE_LIMIT_MAX", cfg.RateLimitMax},
	}
	for _, n := range limits {
		if n.value <= 0 {
			return nil, fmt.Errorf("%s must be positive", n.name)
		}
	}

	if cfg.MaxRetries < 0 {
		return nil, errors.New("MAX_RETRIES must not be negative")
	}
	if cfg.RetryBackoffFactor < 1 {
		return nil, errors.New("RETRY_BACKOFF_FACTOR must be at least 1")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, errors.New("LOG_FORMAT must be json or text")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}
