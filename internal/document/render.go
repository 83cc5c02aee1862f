package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/ecosnap/internal/notion"
)

// Render writes the named sections (all of them when headings is empty) as
// plain markdown: one "# heading" per section, nested lists indented by two
// spaces per level, any other block as its plain text.
func Render(ctx context.Context, f ChildrenFetcher, sections *Sections, headings ...string) (string, error) {
	if len(headings) == 0 {
		headings = sections.Keys()
	}

	var sb strings.Builder
	for i, query := range headings {
		heading, blocks, err := sections.Lookup(query)
		if err != nil {
			return "", fmt.Errorf("section %q: %w", query, err)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "# %s\n", heading)

		for _, b := range blocks {
			if err := renderBlock(ctx, f, &sb, b); err != nil {
				return "", fmt.Errorf("section %q: %w", heading, err)
			}
		}
	}
	return sb.String(), nil
}

func renderBlock(ctx context.Context, f ChildrenFetcher, sb *strings.Builder, b notion.Block) error {
	switch b.Type {
	case notion.TypeBulletedListItem, notion.TypeNumberedListItem, notion.TypeToDo:
		items, err := Flatten(ctx, f, b)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Fprintf(sb, "%s- %s\n", strings.Repeat("  ", item.Depth), item.Text)
		}
	case notion.TypeHeading2:
		fmt.Fprintf(sb, "## %s\n", b.Text())
	case notion.TypeHeading3:
		fmt.Fprintf(sb, "### %s\n", b.Text())
	default:
		if text := b.Text(); text != "" {
			fmt.Fprintf(sb, "%s\n", text)
		}
	}
	return nil
}
