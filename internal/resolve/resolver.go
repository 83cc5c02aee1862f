// Package resolve turns a user-supplied string (a record name or a page URL)
// into a canonical Notion record id.
package resolve

import (
	"context"

	"github.com/ppiankov/ecosnap/internal/logging"
)

// Strategy recognises one input form. An empty id with a nil error means
// "not mine"; the resolver then tries the next strategy.
type Strategy interface {
	Name() string
	Match(ctx context.Context, input string) (string, error)
}

// Resolver runs its strategies in order and returns the first id found.
type Resolver struct {
	strategies []Strategy
}

// Option configures a Resolver built by New.
type Option func(*options)

type options struct {
	strict        bool
	titleProperty string
}

// WithStrictNames makes a name that matches several records an error.
func WithStrictNames() Option {
	return func(o *options) { o.strict = true }
}

// WithTitleProperty sets the title column searched by name.
func WithTitleProperty(prop string) Option {
	return func(o *options) { o.titleProperty = prop }
}

// New returns a resolver that tries a name search in databaseID, then a URL parse.
func New(q DatabaseQuerier, databaseID string, opts ...Option) *Resolver {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return NewWithStrategies(
		NameSearch{Querier: q, DatabaseID: databaseID, TitleProperty: o.titleProperty, Strict: o.strict},
		NotionURL{},
	)
}

// NewWithStrategies returns a resolver over an explicit strategy list.
func NewWithStrategies(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the canonical id for input. Later strategies are not
// attempted once one matches; a strategy error stops resolution.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	for _, s := range r.strategies {
		id, err := s.Match(ctx, input)
		if err != nil {
			return "", err
		}
		if id != "" {
			logging.FromContext(ctx).Debug().Str("strategy", s.Name()).Str("id", id).Msg("resolved record")
			return id, nil
		}
	}
	return "", &ResolutionError{Input: input}
}
