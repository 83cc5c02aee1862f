package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/ecosnap/internal/logging"
	"github.com/ppiankov/ecosnap/internal/notion"
)

// URLPrefix is the only URL form NotionURL recognises.
const URLPrefix = "https://www.notion.so/"

// DatabaseQuerier runs a filtered query against a database.
type DatabaseQuerier interface {
	QueryDatabase(ctx context.Context, id string, filter any) ([]notion.Page, error)
}

// NameSearch finds a record whose title property contains the input.
type NameSearch struct {
	Querier    DatabaseQuerier
	DatabaseID string
	// TitleProperty defaults to "Name".
	TitleProperty string
	// Strict turns an ambiguous match into an *AmbiguousMatchError instead of no match.
	Strict bool
}

func (s NameSearch) Name() string { return "name" }

// Match returns the id of the only record whose title contains input.
func (s NameSearch) Match(ctx context.Context, input string) (string, error) {
	log := logging.FromContext(ctx)
	log.Debug().Str("input", input).Msg("attempting to parse input as a record name")

	prop := s.TitleProperty
	if prop == "" {
		prop = "Name"
	}
	filter := map[string]any{
		"property": prop,
		"rich_text": map[string]string{
			"contains": input,
		},
	}

	matches, err := s.Querier.QueryDatabase(ctx, s.DatabaseID, filter)
	if err != nil {
		return "", fmt.Errorf("search records named %q: %w", input, err)
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return notion.CleanID(matches[0].ID), nil
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = notion.CleanID(m.ID)
	}
	log.Warn().Str("input", input).Strs("ids", ids).Msg("name matches several records")
	if s.Strict {
		return "", &AmbiguousMatchError{Input: input, IDs: ids}
	}
	return "", nil
}

// NotionURL extracts the record id from a page URL.
type NotionURL struct{}

func (NotionURL) Name() string { return "url" }

// Match parses https://www.notion.so/<slug>-<id>[?query][#fragment]. The id
// is the last dash-separated token of the path.
func (NotionURL) Match(ctx context.Context, input string) (string, error) {
	logging.FromContext(ctx).Debug().Str("input", input).Msg("attempting to parse input as a record URL")

	if !strings.HasPrefix(input, URLPrefix) {
		return "", nil
	}

	parts := strings.Split(strings.TrimPrefix(input, URLPrefix), "?")
	if len(parts) > 2 {
		return "", &MalformedURLError{URL: input, Reason: "more than one '?'"}
	}

	// Block links carry the block id as a fragment; the page id is in the path.
	path, _, _ := strings.Cut(parts[0], "#")
	path = strings.Trim(path, "/")
	segment := path[strings.LastIndex(path, "/")+1:]
	id := segment[strings.LastIndex(segment, "-")+1:]
	if id == "" {
		return "", &MalformedURLError{URL: input, Reason: "no record id in path"}
	}
	return notion.CleanID(id), nil
}
