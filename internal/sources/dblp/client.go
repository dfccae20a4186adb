package dblp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

const (
	// DefaultEndpoint is the public DBLP instance.
	DefaultEndpoint = "https://dblp.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DBLP asks clients to stay well below 2 requests per second.
	defaultRequestsPerSecond = 1.5
	defaultBurst             = 2

	// maxHits is how many results one search requests.
	maxHits = 100
)

// Config holds the DBLP client configuration.
type Config struct {
	// Endpoint is the API base URL. Defaults to the public instance.
	Endpoint string

	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64

	// Burst is the token bucket burst size.
	Burst int

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = defaultBurst
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Client is a rate-limited HTTP client for the DBLP API. A 429 response
// sets a backoff period on top of the steady token bucket rate.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewClient creates a DBLP API client.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// Endpoint returns the API base URL.
func (c *Client) Endpoint() string { return c.endpoint }

// wait blocks until a request may be sent, honouring both the token
// bucket and any backoff from a previous 429 response.
func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	retryAt := c.retryAt
	c.mu.Unlock()

	if until := time.Until(retryAt); until > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(until):
		}
	}

	return c.limiter.Wait(ctx)
}

// recordBackoff notes a 429 response's Retry-After delay.
func (c *Client) recordBackoff(retryAfterSeconds int) {
	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 60
	}

	c.mu.Lock()
	c.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
	c.mu.Unlock()
}

// get performs one rate-limited GET and returns the response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		after, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.recordBackoff(after)
		return nil, fmt.Errorf("dblp: rate limited (retry after %ds)", after)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("dblp: %s: %w", path, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dblp: %s returned %s", path, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// getJSON performs a GET and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("dblp: decoding %s response: %w", path, err)
	}
	return nil
}
