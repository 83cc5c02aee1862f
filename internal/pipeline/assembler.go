// Package pipeline wires the integrations together: the snapshot assembler
// and the meeting-notes builder.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/ecosnap/internal/github"
	"github.com/ppiankov/ecosnap/internal/logging"
	"github.com/ppiankov/ecosnap/internal/notion"
	"github.com/ppiankov/ecosnap/internal/snapshot"
	"github.com/ppiankov/ecosnap/internal/worker"
)

// ItemLoader loads issues and pull requests.
type ItemLoader interface {
	RepoItems(ctx context.Context, owner, repo string) ([]snapshot.Item, error)
	Item(ctx context.Context, ref github.Reference) (snapshot.Item, error)
}

// TrackingSource lists the references recorded in the tracking database.
type TrackingSource func(ctx context.Context) ([]string, error)

// NotionTracking reads the title column of a Notion database.
func NotionTracking(c *notion.Client, databaseID, titleProperty string) TrackingSource {
	return func(ctx context.Context) ([]string, error) {
		titles, err := notion.DatabaseContents(ctx, c, databaseID, notion.TitleExtractor(titleProperty))
		if err != nil {
			return nil, fmt.Errorf("read tracking database: %w", err)
		}
		return titles, nil
	}
}

// Assembler builds one snapshot from the tracked references and the
// configured repositories.
type Assembler struct {
	Tracking TrackingSource
	Loader   ItemLoader
	Repos    []string
	Workers  int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Run loads everything and concatenates the results: tracked items first,
// then each repository in configuration order. Later entries win on
// duplicate keys.
func (a *Assembler) Run(ctx context.Context) (snapshot.Snapshot, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.FromContext(ctx)

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	var parts []snapshot.Snapshot

	if a.Tracking != nil {
		tracked, err := a.trackedItems(ctx)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		if len(tracked) > 0 {
			parts = append(parts, snapshot.Snapshot{TakenAt: now().UTC(), Items: tracked})
		}
		log.Info().Int("items", len(tracked)).Msg("loaded tracked items")
	}

	repos, err := a.repoItems(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	for i, items := range repos {
		log.Info().Str("repo", a.Repos[i]).Int("items", len(items)).Msg("loaded repository")
		parts = append(parts, snapshot.Snapshot{TakenAt: now().UTC(), Items: items})
	}

	total := snapshot.Concat(parts...)
	total.TakenAt = now().UTC()
	total.RunID = runID
	return total, nil
}

func (a *Assembler) trackedItems(ctx context.Context) ([]snapshot.Item, error) {
	titles, err := a.Tracking(ctx)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	var refs []github.Reference
	for _, title := range titles {
		ref, err := github.ParseReference(title)
		if err != nil {
			log.Warn().Str("row", title).Msg("tracking row is not an issue reference; skipped")
			continue
		}
		refs = append(refs, ref)
	}

	tasks := make([]worker.Task[snapshot.Item], len(refs))
	for i, ref := range refs {
		tasks[i] = func(ctx context.Context) (snapshot.Item, error) {
			return a.Loader.Item(ctx, ref)
		}
	}

	outcomes := worker.NewPool[snapshot.Item](a.Workers).Run(ctx, tasks)
	items := make([]snapshot.Item, 0, len(outcomes))
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		items = append(items, o.Value)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load tracked items: %w", err)
	}
	return items, nil
}

func (a *Assembler) repoItems(ctx context.Context) ([][]snapshot.Item, error) {
	tasks := make([]worker.Task[[]snapshot.Item], len(a.Repos))
	for i, repo := range a.Repos {
		owner, name, err := github.SplitRepo(repo)
		if err != nil {
			return nil, err
		}
		tasks[i] = func(ctx context.Context) ([]snapshot.Item, error) {
			return a.Loader.RepoItems(ctx, owner, name)
		}
	}

	outcomes := worker.NewPool[[]snapshot.Item](a.Workers).Run(ctx, tasks)
	results := make([][]snapshot.Item, len(outcomes))
	var errs []error
	for i, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		results[i] = o.Value
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load repositories: %w", err)
	}
	return results, nil
}
