package cli

import (
	"context"
	"fmt"

	"github.com/ppiankov/ecosnap/internal/apiclient"
	"github.com/ppiankov/ecosnap/internal/cache"
	"github.com/ppiankov/ecosnap/internal/credentials"
	"github.com/ppiankov/ecosnap/internal/github"
	"github.com/ppiankov/ecosnap/internal/model"
	"github.com/ppiankov/ecosnap/internal/notion"
	"github.com/ppiankov/ecosnap/internal/resolve"
	"github.com/ppiankov/ecosnap/internal/worker"
)

// transport holds what the API clients of one command invocation share.
type transport struct {
	opts  apiclient.Options
	close func()
}

func newTransport(cfg *model.Config) (*transport, error) {
	t := &transport{close: func() {}}

	t.opts = apiclient.Options{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
		Proxy:     proxyConfig(cfg),
		Limiter:   worker.NewLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst),
		CacheTTL:  cfg.Cache.TTL,
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	if c != nil {
		t.opts.Cache = c
		if r, ok := c.(*cache.RedisCache); ok {
			t.close = func() { _ = r.Close() }
		}
	}
	return t, nil
}

func proxyConfig(cfg *model.Config) apiclient.ProxyConfig {
	return apiclient.ProxyConfig{
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}
}

func notionToken(cfg *model.Config, flag string) (string, error) {
	if flag == "" {
		flag = cfg.Notion.Token
	}
	return credentials.NotionLookup(flag).Resolve()
}

func githubToken(cfg *model.Config, flag string) (string, error) {
	if flag == "" {
		flag = cfg.GitHub.Token
	}
	return credentials.GitHubLookup(flag).Resolve()
}

func newNotionClient(cfg *model.Config, t *transport, tokenFlag string) (*notion.Client, error) {
	token, err := notionToken(cfg, tokenFlag)
	if err != nil {
		return nil, err
	}
	return notion.New(token, cfg.Notion, t.opts), nil
}

func newGitHubClient(cfg *model.Config, t *transport, tokenFlag string) (*github.Client, error) {
	token, err := githubToken(cfg, tokenFlag)
	if err != nil {
		return nil, err
	}
	return github.New(token, cfg.GitHub.BaseURL, t.opts), nil
}

func newResolver(ctx context.Context, cfg *model.Config, c *notion.Client) (*resolve.Resolver, error) {
	dbID := cfg.Notion.MeetingsDatabaseID
	if dbID == "" && cfg.Notion.MeetingsDatabaseTitle != "" {
		db, err := c.FindDatabaseByTitle(ctx, cfg.Notion.MeetingsDatabaseTitle)
		if err != nil {
			return nil, err
		}
		dbID = db.ID
	}
	if dbID == "" {
		return nil, &apiclient.ConfigError{Provider: "notion", Message: "set notion.meetings_database_id or notion.meetings_database_title"}
	}
	opts := []resolve.Option{resolve.WithTitleProperty(cfg.Notion.TitleProperty)}
	if cfg.Notion.StrictNames {
		opts = append(opts, resolve.WithStrictNames())
	}
	return resolve.New(c, dbID, opts...), nil
}
