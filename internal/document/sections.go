// Package document rebuilds page structure from Notion's flat block lists:
// sections keyed by heading, and nested bulleted lists flattened to
// (depth, text) pairs.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/ecosnap/internal/notion"
	"github.com/ppiankov/ecosnap/internal/partialkey"
)

// ErrStructure marks a block list that cannot be partitioned into sections.
var ErrStructure = errors.New("inconsistent block structure")

// StructureError reports the offending block.
type StructureError struct {
	Index   int
	BlockID string
	Reason  string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("block %d (%s): %s", e.Index, e.BlockID, e.Reason)
}

// Is implements errors.Is support.
func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

// ChildrenFetcher returns the ordered child blocks of a block or page.
type ChildrenFetcher interface {
	BlockChildren(ctx context.Context, id string) ([]notion.Block, error)
}

// Sections maps heading text to the blocks under it, looked up by partial heading.
type Sections = partialkey.Dict[[]notion.Block]

// BuildSections groups blocks under the nearest preceding heading_1.
//
// Heading blocks themselves are not part of any section, and a heading's text is
// its first rich-text run only. Headings with no content after them get no entry.
// Content before the first heading, or a heading without text, is a *StructureError.
func BuildSections(blocks []notion.Block) (*Sections, error) {
	sections := partialkey.New[[]notion.Block]()

	var current *string
	for i, b := range blocks {
		if b.IsHeading() {
			if len(b.RichText) == 0 {
				return nil, &StructureError{Index: i, BlockID: b.ID, Reason: "heading has no text"}
			}
			heading := b.RichText[0].PlainText
			current = &heading
			continue
		}

		if current == nil {
			return nil, &StructureError{Index: i, BlockID: b.ID, Reason: b.Type + " block appears before any heading"}
		}
		existing, _ := sections.Exact(*current)
		sections.Set(*current, append(existing, b))
	}

	return sections, nil
}

// FetchSections loads the top-level blocks of pageID and groups them.
func FetchSections(ctx context.Context, f ChildrenFetcher, pageID string) (*Sections, error) {
	blocks, err := f.BlockChildren(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("fetch blocks of page %s: %w", pageID, err)
	}
	sections, err := BuildSections(blocks)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", pageID, err)
	}
	return sections, nil
}
