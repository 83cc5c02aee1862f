// Package github loads issues and pull requests from the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ppiankov/ecosnap/internal/apiclient"
	"github.com/ppiankov/ecosnap/internal/snapshot"
)

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

type user struct {
	Login string `json:"login"`
}

type label struct {
	Name string `json:"name"`
}

// Issue is the subset of the issues API payload ecosnap keeps. Pull requests
// come back from the same endpoint with PullRequest set.
type Issue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
	Labels      []label   `json:"labels"`
	Assignees   []user    `json:"assignees"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

// Item converts the issue to a snapshot item of repo ("owner/name").
func (i Issue) Item(repo string) snapshot.Item {
	it := snapshot.Item{
		Repo:      repo,
		Number:    i.Number,
		Kind:      snapshot.KindIssue,
		Title:     i.Title,
		State:     i.State,
		URL:       i.HTMLURL,
		UpdatedAt: i.UpdatedAt,
	}
	if i.PullRequest != nil {
		it.Kind = snapshot.KindPullRequest
	}
	for _, l := range i.Labels {
		it.Labels = append(it.Labels, l.Name)
	}
	for _, a := range i.Assignees {
		it.Assignees = append(it.Assignees, a.Login)
	}
	return it
}

// Client is a GitHub API client.
type Client struct {
	api apiclient.Sender
}

// New creates a client authenticated with a personal access token.
// An empty baseURL selects the public API.
func New(token, baseURL string, opts apiclient.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return NewWithSender(apiclient.New(apiclient.Provider{
		Name:    "github",
		BaseURL: baseURL,
		Headers: map[string]string{
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": "2022-11-28",
		},
		Auth: apiclient.BearerAuth{Token: token},
	}, opts))
}

// NewWithSender wraps an existing sender.
func NewWithSender(s apiclient.Sender) *Client {
	return &Client{api: s}
}

// RepoItems returns the first 100 issues and pull requests of owner/repo, any state.
func (c *Client) RepoItems(ctx context.Context, owner, repo string) ([]snapshot.Item, error) {
	path := fmt.Sprintf("repos/%s/%s/issues?state=all&per_page=100", owner, repo)
	var issues []Issue
	if err := c.api.Send(ctx, http.MethodGet, path, nil, &issues); err != nil {
		return nil, fmt.Errorf("list items of %s/%s: %w", owner, repo, err)
	}

	full := owner + "/" + repo
	items := make([]snapshot.Item, len(issues))
	for i, is := range issues {
		items[i] = is.Item(full)
	}
	return items, nil
}

// Item returns a single issue or pull request.
func (c *Client) Item(ctx context.Context, ref Reference) (snapshot.Item, error) {
	path := fmt.Sprintf("repos/%s/%s/issues/%d", ref.Owner, ref.Repo, ref.Number)
	var is Issue
	if err := c.api.Send(ctx, http.MethodGet, path, nil, &is); err != nil {
		return snapshot.Item{}, fmt.Errorf("load %s: %w", ref, err)
	}
	return is.Item(ref.Repository()), nil
}
