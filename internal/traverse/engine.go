// Package traverse implements the depth-bounded frontier expansion that maps
// a start entity to its local neighborhood. Three interchangeable strategies
// share one contract: consume a start id, label, and options, produce the
// accumulated edges, depth map, and label map.
package traverse

import (
	"context"
	"fmt"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/graph"
	"github.com/conceptmap/conceptmap/internal/logger"
	"github.com/conceptmap/conceptmap/internal/wikidata"
)

// Fetcher is the data-access surface the engine needs. *wikidata.Client
// satisfies it; tests substitute fakes.
type Fetcher interface {
	GetEntity(ctx context.Context, id string) (*wikidata.Entity, error)
	FetchLevel(ctx context.Context, sources []string, limit int) (*wikidata.LevelResult, error)
	ResolveLabels(ctx context.Context, ids []string) map[string]string
}

// Options are the immutable per-run traversal settings.
type Options struct {
	// Mode selects the expansion strategy: rest, sparql, or hybrid.
	Mode string

	// MaxDepth is the number of expansion levels. The caller clamps it to
	// [1, 3]; the engine assumes a valid positive value.
	MaxDepth int

	// LimitRelations caps relations kept per entity at depth 0;
	// LimitRelationsDeep applies at deeper levels.
	LimitRelations     int
	LimitRelationsDeep int

	// HubThreshold is the sitelinks count at or above which an entity is
	// recorded but never expanded further. Zero disables suppression.
	HubThreshold int
}

// relationLimit returns the per-entity cap for a given depth.
func (o Options) relationLimit(depth int) int {
	if depth == 0 {
		return o.LimitRelations
	}
	return o.LimitRelationsDeep
}

// strategy is one expansion variant. It mutates the passed state until the
// frontier is exhausted or the depth bound is reached.
type strategy interface {
	expand(ctx context.Context, st *state) error
}

// Engine orchestrates one traversal at a time, synchronously, over a single
// outstanding request. Each run owns independent accumulators; nothing is
// shared across runs.
type Engine struct {
	fetcher Fetcher
	opts    Options
	log     *logger.Logger
}

// New creates an Engine.
func New(fetcher Fetcher, opts Options, log *logger.Logger) *Engine {
	return &Engine{fetcher: fetcher, opts: opts, log: log}
}

// Run expands the neighborhood of the start entity with the configured
// strategy. External-call failures degrade the result rather than abort it;
// the only hard error is an unknown mode, rejected before any work begins.
func (e *Engine) Run(ctx context.Context, startID, startLabel string) (*graph.Result, error) {
	var strat strategy
	switch e.opts.Mode {
	case config.ModeREST:
		strat = &restStrategy{e}
	case config.ModeSPARQL:
		strat = &sparqlStrategy{e}
	case config.ModeHybrid:
		strat = &hybridStrategy{e}
	default:
		return nil, fmt.Errorf("unknown mode %q", e.opts.Mode)
	}

	st := newState(startID, startLabel, e.opts.MaxDepth)

	e.log.Infow("starting traversal",
		"start", startID, "label", startLabel,
		"depth", e.opts.MaxDepth, "mode", e.opts.Mode)

	if err := strat.expand(ctx, st); err != nil {
		return nil, err
	}

	e.log.Infow("traversal complete",
		"nodes", st.result.NodeCount(), "edges", st.result.EdgeCount())

	return st.result, nil
}

// isHub reports whether an entity's sitelinks count puts it at or above the
// suppression threshold.
func (e *Engine) isHub(sitelinks int) bool {
	return e.opts.HubThreshold > 0 && sitelinks >= e.opts.HubThreshold
}
