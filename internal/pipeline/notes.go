package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/ecosnap/internal/document"
)

// Resolver maps user input to a page id.
type Resolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

// Summarizer condenses rendered notes.
type Summarizer interface {
	Post(ctx context.Context, message string) (string, error)
}

// Notes is a rendered meeting page.
type Notes struct {
	PageID  string
	Text    string
	Summary string
}

// NotesBuilder renders a meeting page found by name or URL.
type NotesBuilder struct {
	Resolver Resolver
	Blocks   document.ChildrenFetcher
	// Summarizer is optional.
	Summarizer Summarizer
}

// Build resolves input, groups the page by heading and renders the selected
// sections (all of them when none are given).
func (b *NotesBuilder) Build(ctx context.Context, input string, sections ...string) (*Notes, error) {
	pageID, err := b.Resolver.Resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	grouped, err := document.FetchSections(ctx, b.Blocks, pageID)
	if err != nil {
		return nil, err
	}

	text, err := document.Render(ctx, b.Blocks, grouped, sections...)
	if err != nil {
		return nil, fmt.Errorf("render page %s: %w", pageID, err)
	}

	notes := &Notes{PageID: pageID, Text: text}
	if b.Summarizer != nil && text != "" {
		summary, err := b.Summarizer.Post(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("summarize page %s: %w", pageID, err)
		}
		notes.Summary = summary
	}
	return notes, nil
}
