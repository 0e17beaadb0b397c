package traverse

import (
	"context"
)

// sparqlStrategy fetches each depth level with one batched query instead of
// one lookup per node.
type sparqlStrategy struct {
	e *Engine
}

func (s *sparqlStrategy) expand(ctx context.Context, st *state) error {
	for depth := 0; depth < s.e.opts.MaxDepth; depth++ {
		if len(st.frontier) == 0 {
			break
		}
		s.expandLevel(ctx, st, depth)
	}
	return nil
}

// expandLevel fetches one frontier in a single batched call and builds the
// next frontier from the newly observed targets, minus hubs.
func (s *sparqlStrategy) expandLevel(ctx context.Context, st *state, depth int) {
	e := s.e
	frontier := st.frontierIDs()
	limit := e.opts.relationLimit(depth)

	e.log.Infow("fetching level", "depth", depth, "entities", len(frontier))

	level, err := e.fetcher.FetchLevel(ctx, frontier, limit)
	if err != nil {
		// The whole batch is treated as empty: the traversal is
		// truncated at this level rather than aborted.
		e.log.Warnw("level fetch failed, truncating traversal",
			"depth", depth, "error", err)
		st.frontier = map[string]struct{}{}
		return
	}

	for _, edge := range level.Edges {
		st.result.AddEdge(edge)
	}
	st.result.MergeLabels(level.Labels)

	next := make(map[string]struct{})
	for target := range level.Targets {
		if !st.discover(target, depth+1) {
			continue
		}
		if e.isHub(level.Sitelinks[target]) {
			// Hubs stay in the graph with their incoming edges but
			// never enter a future frontier.
			e.log.Infow("hub entity, skipping expansion",
				"entity", target, "label", st.result.LabelFor(target),
				"sitelinks", level.Sitelinks[target],
				"threshold", e.opts.HubThreshold)
			continue
		}
		next[target] = struct{}{}
	}
	st.frontier = next
}
