// Package notion talks to the Notion REST API: database search and query, and
// block children of a page.
package notion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ppiankov/ecosnap/internal/apiclient"
	"github.com/ppiankov/ecosnap/internal/cache"
	"github.com/ppiankov/ecosnap/internal/logging"
	"github.com/ppiankov/ecosnap/internal/model"
)

type listResponse[T any] struct {
	Results    []T     `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Client is a Notion API client.
type Client struct {
	api     apiclient.Sender
	lookups *cache.MemoryCache
}

// New creates a client for the given integration token.
func New(token string, cfg model.NotionConfig, opts apiclient.Options) *Client {
	// Block content must never be served from a cache.
	opts.Cache = nil

	version := cfg.Version
	if version == "" {
		version = model.DefaultConfig().Notion.Version
	}

	return NewWithSender(apiclient.New(apiclient.Provider{
		Name:    "notion",
		BaseURL: cfg.BaseURL,
		Headers: map[string]string{"Notion-Version": version},
		Auth:    apiclient.BearerAuth{Token: token},
	}, opts))
}

// NewWithSender wraps an existing sender.
func NewWithSender(s apiclient.Sender) *Client {
	return &Client{
		api:     s,
		lookups: cache.NewMemoryCache(time.Hour, 10*time.Minute),
	}
}

// FindDatabaseByTitle searches for a database by title and requires exactly one hit.
// Successful lookups are remembered for the life of the process.
func (c *Client) FindDatabaseByTitle(ctx context.Context, title string) (Database, error) {
	return cache.Remember(c.lookups, "database-title:"+title, func() (Database, error) {
		body := map[string]any{
			"query": title,
			"filter": map[string]string{
				"value":    "database",
				"property": "object",
			},
		}

		var resp listResponse[Database]
		if err := c.api.Send(ctx, http.MethodPost, "search", body, &resp); err != nil {
			return Database{}, fmt.Errorf("search database %q: %w", title, err)
		}
		if n := len(resp.Results); n != 1 {
			return Database{}, &DatabaseLookupError{Title: title, Count: n}
		}
		return resp.Results[0], nil
	})
}

// QueryDatabase returns the first page of rows of database id, optionally filtered.
func (c *Client) QueryDatabase(ctx context.Context, id string, filter any) ([]Page, error) {
	var body any
	if filter != nil {
		body = map[string]any{"filter": filter}
	}

	path := fmt.Sprintf("databases/%s/query", CleanID(id))
	var resp listResponse[Page]
	if err := c.api.Send(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	warnTruncated(ctx, path, resp.HasMore)
	return resp.Results, nil
}

// BlockChildren returns the first page of child blocks of id, in order.
func (c *Client) BlockChildren(ctx context.Context, id string) ([]Block, error) {
	path := fmt.Sprintf("blocks/%s/children", CleanID(id))
	var resp listResponse[Block]
	if err := c.api.Send(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	warnTruncated(ctx, path, resp.HasMore)
	return resp.Results, nil
}

// DatabaseContents maps every row of database id through extract, dropping rows
// for which extract reports false.
func DatabaseContents[T any](ctx context.Context, c *Client, id string, extract func(context.Context, Page) (T, bool)) ([]T, error) {
	rows, err := c.QueryDatabase(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if v, ok := extract(ctx, row); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// TitleExtractor returns an extractor reading the title column prop.
// Rows without a title are logged and skipped.
func TitleExtractor(prop string) func(context.Context, Page) (string, bool) {
	return func(ctx context.Context, p Page) (string, bool) {
		title, ok := p.Title(prop)
		if !ok {
			logging.FromContext(ctx).Warn().Str("row_id", p.ID).Str("property", prop).Msg("row has no title; skipped")
		}
		return title, ok
	}
}

// Pagination is not followed; only the first page is returned.
func warnTruncated(ctx context.Context, path string, hasMore bool) {
	if hasMore {
		logging.FromContext(ctx).Warn().Str("endpoint", path).Msg("results truncated to the first page")
	}
}
