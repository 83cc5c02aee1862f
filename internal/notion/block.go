package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Block types ecosnap cares about. Others decode fine and render as plain text.
const (
	TypeHeading1         = "heading_1"
	TypeHeading2         = "heading_2"
	TypeHeading3         = "heading_3"
	TypeParagraph        = "paragraph"
	TypeBulletedListItem = "bulleted_list_item"
	TypeNumberedListItem = "numbered_list_item"
	TypeToDo             = "to_do"
)

// RichText is one run of text. Only the plain text is kept.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// Block is a single content unit of a page.
//
// On the wire the text lives under a key named after the block type, e.g.
// {"type":"heading_1","heading_1":{"rich_text":[...]}}.
type Block struct {
	ID          string
	Type        string
	HasChildren bool
	RichText    []RichText
}

type blockHeader struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`
}

type blockPayload struct {
	RichText []RichText `json:"rich_text"`
}

// UnmarshalJSON decodes the type-keyed Notion block shape.
func (b *Block) UnmarshalJSON(data []byte) error {
	var head blockHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	var payload blockPayload
	if raw, ok := fields[head.Type]; ok && head.Type != "" {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode %s payload of block %s: %w", head.Type, head.ID, err)
		}
	}

	*b = Block{
		ID:          head.ID,
		Type:        head.Type,
		HasChildren: head.HasChildren,
		RichText:    payload.RichText,
	}
	return nil
}

// MarshalJSON encodes the block back into the Notion shape.
func (b Block) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"object":       "block",
		"id":           b.ID,
		"type":         b.Type,
		"has_children": b.HasChildren,
	}
	if b.Type != "" {
		runs := b.RichText
		if runs == nil {
			runs = []RichText{}
		}
		out[b.Type] = blockPayload{RichText: runs}
	}
	return json.Marshal(out)
}

// Text concatenates the plain text of every run in order.
func (b Block) Text() string {
	return PlainText(b.RichText)
}

// IsHeading reports whether b is a top-level heading.
func (b Block) IsHeading() bool {
	return b.Type == TypeHeading1
}

// PlainText concatenates runs.
func PlainText(runs []RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}
