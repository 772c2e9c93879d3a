package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	defaultCacheTTL     = 15 * time.Minute
	defaultCachePurge   = 30 * time.Minute
	defaultRatePerSec   = 5
	defaultRateBurst    = 10
	maxDirectionsBody   = 1 << 20
)

// Client resolves routes against an HTTP directions backend. Responses
// are cached per origin/destination pair and requests are rate limited.
// Backend failures degrade to the straight-line estimator when one is
// configured.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mode       string
	cache      *gocache.Cache
	limiter    *rate.Limiter
	estimator  *Estimator
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithMode sets the transport mode requested from the backend.
// Defaults to transit.
func WithMode(mode string) ClientOption {
	return func(c *Client) { c.mode = mode }
}

// WithEstimator sets the straight-line fallback used when the backend
// fails.
func WithEstimator(e *Estimator) ClientOption {
	return func(c *Client) { c.estimator = e }
}

// WithRateLimit overrides the request rate limit.
func WithRateLimit(perSec float64, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSec), burst) }
}

// WithCacheTTL overrides how long resolved routes are cached.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) { c.cache = gocache.New(ttl, 2*ttl) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a directions client for the given backend base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		mode:       ModeTransit,
		cache:      gocache.New(defaultCacheTTL, defaultCachePurge),
		limiter:    rate.NewLimiter(rate.Limit(defaultRatePerSec), defaultRateBurst),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type directionsResponse struct {
	Mode            string   `json:"mode"`
	DurationSeconds int      `json:"duration_seconds"`
	DurationText    string   `json:"duration_text"`
	Steps           []string `json:"steps"`
}

// Resolve returns the route between two named places, consulting the
// cache first and the estimator on backend failure.
func (c *Client) Resolve(ctx context.Context, origin, destination string) (Route, error) {
	key := origin + "|" + destination + "|" + c.mode
	if cached, ok := c.cache.Get(key); ok {
		return cached.(Route), nil
	}

	route, err := c.fetch(ctx, origin, destination)
	if err != nil {
		c.logger.Warn("directions backend failed, falling back to estimate",
			"origin", origin,
			"destination", destination,
			"error", err)
		if c.estimator == nil {
			return Route{}, err
		}
		route, err = c.estimator.Estimate(ctx, origin, destination, c.mode)
		if err != nil {
			return Route{}, err
		}
	}

	c.cache.Set(key, route, gocache.DefaultExpiration)
	return route, nil
}

func (c *Client) fetch(ctx context.Context, origin, destination string) (Route, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Route{}, fmt.Errorf("directions rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("mode", c.mode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/directions?"+q.Encode(), nil)
	if err != nil {
		return Route{}, fmt.Errorf("build directions request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("directions request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDirectionsBody))
	if err != nil {
		return Route{}, fmt.Errorf("read directions response: %w", err)
	}

	var dr directionsResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	minutes := dr.DurationSeconds / 60
	text := dr.DurationText
	if text == "" {
		text = FormatDuration(minutes)
	}
	mode := dr.Mode
	if mode == "" {
		mode = c.mode
	}

	return Route{
		Origin:       origin,
		Destination:  destination,
		Mode:         mode,
		DurationMin:  minutes,
		DurationText: text,
		Steps:        dr.Steps,
	}, nil
}
