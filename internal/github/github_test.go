package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/ecosnap/internal/apiclient"
	"github.com/ppiankov/ecosnap/internal/cache"
	"github.com/ppiankov/ecosnap/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		in      string
		want    Reference
		wantErr bool
	}{
		{in: "omsf-eco-infra/ghsnap#12", want: Reference{"omsf-eco-infra", "ghsnap", 12}},
		{in: "https://github.com/acme/api/issues/3", want: Reference{"acme", "api", 3}},
		{in: "https://github.com/acme/api/pull/45/", want: Reference{"acme", "api", 45}},
		{in: "https://github.com/acme/api.go/pull/45#discussion", want: Reference{"acme", "api.go", 45}},
		{in: "  acme/api#1\n", want: Reference{"acme", "api", 1}},
		{in: "acme/api", wantErr: true},
		{in: "acme/api#0", wantErr: true},
		{in: "https://gitlab.com/acme/api/issues/3", wantErr: true},
		{in: "Weekly planning", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReference(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitRepo(t *testing.T) {
	owner, repo, err := SplitRepo("acme/api")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "api", repo)

	for _, bad := range []string{"acme", "/api", "acme/", "a/b/c"} {
		_, _, err := SplitRepo(bad)
		assert.Error(t, err, bad)
	}
}

const issuesPayload = `[
  {"number": 1, "title": "Crash on start", "state": "open", "html_url": "https://github.com/acme/api/issues/1",
   "updated_at": "2024-03-01T10:00:00Z", "labels": [{"name": "bug"}], "assignees": [{"login": "dana"}]},
  {"number": 2, "title": "Add cache", "state": "closed", "html_url": "https://github.com/acme/api/pull/2",
   "updated_at": "2024-03-02T10:00:00Z", "pull_request": {"url": "x"}}
]`

func TestRepoItems(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/repos/acme/api/issues", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		assert.Equal(t, "Bearer ghp", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, issuesPayload)
	}))
	defer server.Close()

	c := New("ghp", server.URL, apiclient.Options{
		Cache:    cache.NewMemoryCache(time.Minute, time.Minute),
		CacheTTL: time.Minute,
	})

	items, err := c.RepoItems(context.Background(), "acme", "api")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, snapshot.Item{
		Repo: "acme/api", Number: 1, Kind: snapshot.KindIssue, Title: "Crash on start", State: "open",
		Labels: []string{"bug"}, Assignees: []string{"dana"}, URL: "https://github.com/acme/api/issues/1",
		UpdatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}, items[0])
	assert.Equal(t, snapshot.KindPullRequest, items[1].Kind)

	_, err = c.RepoItems(context.Background(), "acme", "api")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second listing is served from cache")
}

func TestItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/api/issues/7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not Found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"number": 7, "title": "Docs", "state": "open"}`)
	}))
	defer server.Close()

	c := New("ghp", server.URL, apiclient.Options{})

	it, err := c.Item(context.Background(), Reference{Owner: "acme", Repo: "api", Number: 7})
	require.NoError(t, err)
	assert.Equal(t, "acme/api#7", it.Key())
	assert.Equal(t, "Docs", it.Title)

	_, err = c.Item(context.Background(), Reference{Owner: "acme", Repo: "api", Number: 8})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.ErrorIs(t, err, apiclient.ErrRemote)
}
