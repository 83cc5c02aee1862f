package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/ecosnap/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Provider{
		Name:    "notion",
		BaseURL: server.URL + "/v1/",
		Headers: map[string]string{"Notion-Version": "2022-06-28"},
		Auth:    BearerAuth{Token: "secret"},
	}, opts)
}

func TestSend_PostJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "ecosnap-test", r.Header.Get("User-Agent"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Meetings", body["query"])

		_, _ = io.WriteString(w, `{"results":[{"id":"abc"}]}`)
	}, Options{UserAgent: "ecosnap-test"})

	var out struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	err := c.Post(context.Background(), "search", map[string]any{"query": "Meetings"}, &out)
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "abc", out.Results[0].ID)
}

func TestSend_GetHasNoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Equal(t, "/v1/blocks/b1/children", r.URL.Path)
		_, _ = io.WriteString(w, `{"results":[]}`)
	}, Options{})

	require.NoError(t, c.Get(context.Background(), "/blocks/b1/children", nil))
}

func TestSend_NonSuccessIsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"object":"error","code":"object_not_found"}`)
	}, Options{})

	err := c.Get(context.Background(), "databases/x", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Endpoint, "/v1/databases/x")
	assert.Contains(t, string(apiErr.Body), "object_not_found")
	assert.ErrorIs(t, err, ErrRemote)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestSend_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, Options{})

	err := c.Get(context.Background(), "search", nil)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSend_MissingBaseURL(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	c := New(Provider{Name: "custom"}, Options{})
	err := c.Get(context.Background(), "anything", nil)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestSend_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{malformed`)
	}, Options{})

	var out map[string]any
	err := c.Get(context.Background(), "x", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSend_CachesGETOnly(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = io.WriteString(w, `{"n":1}`)
	}, Options{Cache: cache.NewMemoryCache(time.Minute, time.Minute)})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		var out struct{ N int }
		require.NoError(t, c.Get(ctx, "repos/a/b/issues", &out))
		assert.Equal(t, 1, out.N)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	require.NoError(t, c.Post(ctx, "search", map[string]string{}, nil))
	require.NoError(t, c.Post(ctx, "search", map[string]string{}, nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestSend_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Get(ctx, "slow", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBearerAuth_EmptyToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	BearerAuth{}.Apply(req)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestProxyConfig(t *testing.T) {
	fn := ProxyConfig{HTTPSProxy: "http://proxy.internal:3128", NoProxy: "api.github.com"}.ProxyFunc()

	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "api.notion.com"}}
	proxy, err := fn(req)
	require.NoError(t, err)
	require.NotNil(t, proxy)
	assert.Equal(t, "proxy.internal:3128", proxy.Host)

	req = &http.Request{URL: &url.URL{Scheme: "https", Host: "api.github.com"}}
	proxy, err = fn(req)
	require.NoError(t, err)
	assert.Nil(t, proxy)
}
