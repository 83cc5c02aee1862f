// Package apiclient is the authenticated JSON client shared by the Notion and
// GitHub integrations. Each provider is a configuration value (base URL, extra
// headers, auth scheme) rather than a client subtype.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/ecosnap/internal/cache"
	"github.com/ppiankov/ecosnap/internal/logging"
	"github.com/ppiankov/ecosnap/internal/worker"
)

const maxResponseBytes = 16 << 20

// Provider describes one remote API.
type Provider struct {
	Name    string
	BaseURL string
	Headers map[string]string
	Auth    Authenticator
}

// Options tune the underlying transport.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Proxy     ProxyConfig

	// Limiter throttles requests per host. Nil disables throttling.
	Limiter *worker.Limiter

	// Cache stores successful GET bodies. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	// HTTPClient replaces the default client (tests).
	HTTPClient *http.Client
}

// Sender is the capability the integrations depend on.
type Sender interface {
	Send(ctx context.Context, method, path string, body, out any) error
}

// Client issues JSON requests against a single Provider.
type Client struct {
	provider   Provider
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// New creates a client for p.
func New(p Provider, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: opts.Proxy.ProxyFunc()},
		}
	}
	if p.Auth == nil {
		p.Auth = NoAuth{}
	}

	return &Client{
		provider:   p,
		httpClient: httpClient,
		userAgent:  opts.UserAgent,
		limiter:    opts.Limiter,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
	}
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Send(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Send(ctx, http.MethodPost, path, body, out)
}

// Send performs one request. A nil body sends no payload; a nil out discards
// the response. Non-2xx responses return *APIError. There are no retries.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return err
	}
	log := logging.FromContext(ctx).With().
		Str("provider", c.provider.Name).
		Str("method", method).
		Str("endpoint", endpoint).
		Logger()

	cacheKey := ""
	if c.cache != nil && method == http.MethodGet {
		cacheKey = cache.Key(method, endpoint)
		if raw, ok := c.cache.Get(cacheKey); ok {
			log.Debug().Bool("cached", true).Msg("api request")
			return decode(raw, out)
		}
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.decorate(req, body != nil)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Provider:   c.provider.Name,
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       raw,
		}
	}

	if err := decode(raw, out); err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	if cacheKey != "" {
		if err := c.cache.Set(cacheKey, raw, c.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return nil
}

func (c *Client) endpoint(path string) (string, error) {
	if c.provider.BaseURL == "" {
		return "", &ConfigError{Provider: c.provider.Name, Message: "base URL is not set"}
	}
	return strings.TrimRight(c.provider.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"), nil
}

func (c *Client) decorate(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range c.provider.Headers {
		req.Header.Set(k, v)
	}
	c.provider.Auth.Apply(req)
}

func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
