// Package snapshot holds the point-in-time view of tracked issues and pull
// requests, and the operations on it: concatenation, diffing, persistence.
package snapshot

import (
	"fmt"
	"sort"
	"time"
)

// Kind distinguishes issues from pull requests.
type Kind string

const (
	KindIssue       Kind = "issue"
	KindPullRequest Kind = "pull_request"
)

// Item is one issue or pull request.
type Item struct {
	Repo      string    `json:"repo" yaml:"repo"`
	Number    int       `json:"number" yaml:"number"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Title     string    `json:"title" yaml:"title"`
	State     string    `json:"state" yaml:"state"`
	Labels    []string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Assignees []string  `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	URL       string    `json:"url" yaml:"url"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Key identifies an item across snapshots: "owner/repo#number".
func (i Item) Key() string {
	return fmt.Sprintf("%s#%d", i.Repo, i.Number)
}

// Snapshot is a set of items taken at one moment.
type Snapshot struct {
	TakenAt time.Time `json:"taken_at" yaml:"taken_at"`
	RunID   string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Items   []Item    `json:"items" yaml:"items"`
}

// Index returns the items keyed by Item.Key.
func (s Snapshot) Index() map[string]Item {
	idx := make(map[string]Item, len(s.Items))
	for _, it := range s.Items {
		idx[it.Key()] = it
	}
	return idx
}

// Concat merges snapshots in order. When the same item appears more than once
// the later copy wins; first-seen order is kept. TakenAt is the latest input time.
func Concat(snaps ...Snapshot) Snapshot {
	var out Snapshot
	pos := make(map[string]int)

	for _, s := range snaps {
		if s.TakenAt.After(out.TakenAt) {
			out.TakenAt = s.TakenAt
		}
		for _, it := range s.Items {
			k := it.Key()
			if i, ok := pos[k]; ok {
				out.Items[i] = it
				continue
			}
			pos[k] = len(out.Items)
			out.Items = append(out.Items, it)
		}
	}
	return out
}

// Change is an item present in both snapshots with different content.
type Change struct {
	Key    string   `json:"key" yaml:"key"`
	Fields []string `json:"fields" yaml:"fields"`
	Old    Item     `json:"old" yaml:"old"`
	New    Item     `json:"new" yaml:"new"`
}

// Delta is the difference between two snapshots, sorted by key.
type Delta struct {
	Added   []Item   `json:"added" yaml:"added"`
	Removed []Item   `json:"removed" yaml:"removed"`
	Changed []Change `json:"changed" yaml:"changed"`
}

// Empty reports whether nothing changed.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares before against after.
func Diff(prev, next Snapshot) Delta {
	before, after := prev.Index(), next.Index()
	var d Delta

	for k, n := range after {
		o, ok := before[k]
		if !ok {
			d.Added = append(d.Added, n)
			continue
		}
		if fields := changedFields(o, n); len(fields) > 0 {
			d.Changed = append(d.Changed, Change{Key: k, Fields: fields, Old: o, New: n})
		}
	}
	for k, o := range before {
		if _, ok := after[k]; !ok {
			d.Removed = append(d.Removed, o)
		}
	}

	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i].Key() < d.Added[j].Key() })
	sort.Slice(d.Removed, func(i, j int) bool { return d.Removed[i].Key() < d.Removed[j].Key() })
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].Key < d.Changed[j].Key })
	return d
}

func changedFields(o, n Item) []string {
	var fields []string
	if o.Title != n.Title {
		fields = append(fields, "title")
	}
	if o.State != n.State {
		fields = append(fields, "state")
	}
	if o.Kind != n.Kind {
		fields = append(fields, "kind")
	}
	if !sameSet(o.Labels, n.Labels) {
		fields = append(fields, "labels")
	}
	if !sameSet(o.Assignees, n.Assignees) {
		fields = append(fields, "assignees")
	}
	return fields
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
