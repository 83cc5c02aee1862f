package document

import (
	"context"
	"fmt"

	"github.com/ppiankov/ecosnap/internal/notion"
)

// ListItem is one line of a flattened nested list.
type ListItem struct {
	Depth int
	Text  string
}

type frame struct {
	blocks []notion.Block
	depth  int
}

// ListWalker walks a list item and its descendants depth-first, pre-order.
//
// Children are fetched lazily, once per block that reports HasChildren, when
// the caller asks for the item after it. A walker is single use: once Next has
// returned false it keeps doing so. Nesting depth is limited only by memory.
//
//	w := NewListWalker(ctx, client, block)
//	for w.Next() {
//		item := w.Item()
//	}
//	if err := w.Err(); err != nil { ... }
type ListWalker struct {
	ctx     context.Context
	fetcher ChildrenFetcher

	stack   []frame
	pending *notion.Block
	depth   int

	item ListItem
	err  error
	done bool
}

// NewListWalker starts a walk at root, which is reported at depth 0.
func NewListWalker(ctx context.Context, f ChildrenFetcher, root notion.Block) *ListWalker {
	return &ListWalker{
		ctx:     ctx,
		fetcher: f,
		stack:   []frame{{blocks: []notion.Block{root}, depth: 0}},
	}
}

// Next advances to the next item.
func (w *ListWalker) Next() bool {
	if w.done {
		return false
	}

	if parent := w.pending; parent != nil {
		w.pending = nil
		children, err := w.fetcher.BlockChildren(w.ctx, parent.ID)
		if err != nil {
			w.err = fmt.Errorf("fetch children of block %s: %w", parent.ID, err)
			w.done = true
			return false
		}
		if len(children) > 0 {
			w.stack = append(w.stack, frame{blocks: children, depth: w.depth + 1})
		}
	}

	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if len(top.blocks) == 0 {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}

		b := top.blocks[0]
		top.blocks = top.blocks[1:]
		w.item = ListItem{Depth: top.depth, Text: b.Text()}
		if b.HasChildren {
			w.pending = &b
			w.depth = top.depth
		}
		return true
	}

	w.done = true
	return false
}

// Item returns the current item. Valid only after Next returned true.
func (w *ListWalker) Item() ListItem {
	return w.item
}

// Err returns the fetch error that ended the walk, if any.
func (w *ListWalker) Err() error {
	return w.err
}

// Flatten runs a full walk from block and collects every item.
func Flatten(ctx context.Context, f ChildrenFetcher, block notion.Block) ([]ListItem, error) {
	var items []ListItem
	w := NewListWalker(ctx, f, block)
	for w.Next() {
		items = append(items, w.Item())
	}
	return items, w.Err()
}
