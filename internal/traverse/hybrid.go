package traverse

import (
	"context"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// hybridStrategy fetches the root via the per-item REST lookup, exposing the
// richer per-item record for depth 0, then switches to batched queries for
// every deeper level, carrying the discovered state forward.
type hybridStrategy struct {
	e *Engine
}

func (s *hybridStrategy) expand(ctx context.Context, st *state) error {
	e := s.e
	start := st.result.StartID

	e.log.Infow("fetching root entity", "entity", start)

	entity, err := e.fetcher.GetEntity(ctx, start)
	if err != nil {
		// No root record means nothing to traverse; the result keeps
		// just the start node.
		e.log.Warnw("root fetch failed", "entity", start, "error", err)
		return nil
	}

	relations, ids := entity.Relations(e.opts.LimitRelations)

	frontier := make(map[string]struct{})
	for _, rel := range relations {
		st.result.AddEdge(graph.Edge{
			Source:   start,
			Property: rel.Property,
			Target:   rel.Target,
		})
		if st.discover(rel.Target, 1) {
			frontier[rel.Target] = struct{}{}
		}
	}
	st.frontier = frontier

	e.log.Infow("resolving root labels", "ids", len(ids))
	st.addPending(ids)
	labels := e.fetcher.ResolveLabels(ctx, st.pendingIDList())
	st.result.MergeLabels(labels)
	st.result.SetLabel(start, st.result.StartLabel)

	batched := &sparqlStrategy{e}
	for depth := 1; depth < e.opts.MaxDepth; depth++ {
		if len(st.frontier) == 0 {
			break
		}
		batched.expandLevel(ctx, st, depth)
	}

	return nil
}
