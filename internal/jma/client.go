package jma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"

	"github.com/kumoribot/jma-weather/internal/config"
	"github.com/kumoribot/jma-weather/internal/domain"
	"github.com/kumoribot/jma-weather/internal/observability"
)

// Client fetches JMA bosai documents. Every call goes through the response
// cache, the local rate limiter, and the retry controller, in that order.
// A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      *responseCache
	limiter    *slidingWindow
	retry      retryPolicy
	timer      backoff.Timer
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient builds a client from config. A nil clk uses real time; tests
// pass a fake to drive cache expiry and the rate-limit window.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, clk clockwork.Clock) *Client {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.HTTPTimeout,
		},
		cache:   newResponseCache(cfg.CacheTTL, clk),
		limiter: newSlidingWindow(cfg.RateLimitMax, cfg.RateLimitWindow, clk),
		retry: retryPolicy{
			maxRetries: uint64(cfg.MaxRetries),
			baseDelay:  cfg.RetryBaseDelay,
			factor:     cfg.RetryBackoffFactor,
			maxDelay:   cfg.RetryMaxDelay,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchAreaDocument retrieves the authoritative area directory.
func (c *Client) FetchAreaDocument(ctx context.Context) ([]byte, error) {
	return c.Fetch(ctx, c.baseURL+"/common/const/area.json", true)
}

// FetchContents retrieves the contents listing, a cheap liveness probe for
// the upstream API.
func (c *Client) FetchContents(ctx context.Context) ([]byte, error) {
	return c.Fetch(ctx, c.baseURL+"/common/const/contents.json", true)
}

// FetchForecast retrieves the forecast document for one office code.
func (c *Client) FetchForecast(ctx context.Context, areaCode string) ([]byte, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/forecast/data/forecast/%s.json", c.baseURL, areaCode), true)
}

// FetchWarnings retrieves the warning document for one office code.
func (c *Client) FetchWarnings(ctx context.Context, areaCode string) ([]byte, error) {
	return c.Fetch(ctx, fmt.Sprintf("%s/warning/data/warning/%s.json", c.baseURL, areaCode), true)
}

// Fetch returns the body at fullURL. A fresh cache entry short-circuits the
// limiter and the network; otherwise the retried transport runs and, when
// useCache is set, a valid body enters the cache.
func (c *Client) Fetch(ctx context.Context, fullURL string, useCache bool) ([]byte, error) {
	endpoint := endpointLabel(fullURL)

	if useCache {
		if body, ok := c.cache.get(fullURL); ok {
			c.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return body, nil
		}
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	body, err := c.retryFetch(ctx, endpoint, func() ([]byte, error) {
		return c.attempt(ctx, fullURL, endpoint)
	})
	if err != nil {
		return nil, err
	}

	if useCache {
		c.cache.put(fullURL, body)
		c.metrics.CacheEntries.Set(float64(c.cache.size()))
	}
	return body, nil
}

// attempt performs one rate-limited GET and classifies the result.
func (c *Client) attempt(ctx context.Context, fullURL, endpoint string) ([]byte, error) {
	if err := c.limiter.allow(); err != nil {
		c.metrics.RateLimitRejections.Inc()
		c.countOutcome(endpoint, "rate_limited_local")
		return nil, fmt.Errorf("local rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		classified := classifyTransportError(err)
		c.countOutcome(endpoint, outcomeFor(classified))
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.countOutcome(endpoint, "network_error")
		return nil, fmt.Errorf("read response body: %v: %w", err, domain.ErrNetwork)
	}

	if err := statusError(resp, body); err != nil {
		c.countOutcome(endpoint, outcomeFor(err))
		return nil, err
	}

	// A 200 with a broken body must not poison the cache.
	if !json.Valid(body) {
		c.countOutcome(endpoint, "parse_error")
		return nil, fmt.Errorf("%s endpoint returned invalid JSON: %w", endpoint, domain.ErrParse)
	}

	c.countOutcome(endpoint, "ok")
	return body, nil
}

func (c *Client) countOutcome(endpoint, outcome string) {
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

// outcomeFor labels a classified failure for the request counter.
func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited_upstream"
	case errors.Is(err, domain.ErrServer):
		return "server_error"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrNetwork):
		return "network_error"
	case errors.Is(err, domain.ErrParse):
		return "parse_error"
	default:
		return "upstream_error"
	}
}

// statusError maps a non-200 response onto the error taxonomy.
func statusError(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("status 404: %w", domain.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("status 429: %w", &domain.RateLimitError{RetryAfter: retryAfterHeader(resp)})
	case resp.StatusCode >= 500:
		return fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrServer)
	default:
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, truncate(body, 200), domain.ErrUpstream)
	}
}

// classifyTransportError folds client-side failures into timeout vs network.
func classifyTransportError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("request timed out: %w", domain.ErrTimeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", domain.ErrTimeout)
	}
	return fmt.Errorf("%v: %w", err, domain.ErrNetwork)
}

// retryAfterHeader parses an integer Retry-After. The HTTP-date form is
// rare on bosai and ignored.
func retryAfterHeader(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// endpointLabel buckets URLs for metrics.
func endpointLabel(fullURL string) string {
	switch {
	case strings.Contains(fullURL, "/forecast/"):
		return "forecast"
	case strings.Contains(fullURL, "/warning/"):
		return "warning"
	case strings.Contains(fullURL, "area.json"):
		return "area"
	case strings.Contains(fullURL, "contents.json"):
		return "contents"
	default:
		return "other"
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
