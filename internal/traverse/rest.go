package traverse

import (
	"context"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// restStrategy is the classic per-node BFS: one REST item lookup per queue
// pop, strictly one at a time in queue order. Labels are resolved once at
// the end over the full accumulated id set rather than per node.
type restStrategy struct {
	e *Engine
}

type queueItem struct {
	id    string
	depth int
}

func (s *restStrategy) expand(ctx context.Context, st *state) error {
	e := s.e
	queue := []queueItem{{id: st.result.StartID, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		e.log.Debugw("fetching entity", "entity", item.id, "depth", item.depth)

		entity, err := e.fetcher.GetEntity(ctx, item.id)
		if err != nil {
			e.log.Warnw("entity fetch failed, skipping expansion",
				"entity", item.id, "error", err)
			continue
		}

		// Hub check applies to non-root entities only, using the
		// sitelinks count of the record just fetched.
		if item.depth > 0 && e.isHub(entity.Sitelinks) {
			e.log.Infow("hub entity, skipping expansion",
				"entity", item.id, "sitelinks", entity.Sitelinks,
				"threshold", e.opts.HubThreshold)
			continue
		}

		relations, ids := entity.Relations(e.opts.relationLimit(item.depth))
		st.addPending(ids)

		for _, rel := range relations {
			st.result.AddEdge(graph.Edge{
				Source:   item.id,
				Property: rel.Property,
				Target:   rel.Target,
			})

			if st.discover(rel.Target, item.depth+1) && item.depth+1 < e.opts.MaxDepth {
				queue = append(queue, queueItem{id: rel.Target, depth: item.depth + 1})
			}
		}
	}

	// One bulk resolution over everything discovered keeps the round
	// trips to the label service to a minimum.
	labels := e.fetcher.ResolveLabels(ctx, st.pendingIDList())
	st.result.MergeLabels(labels)
	st.result.SetLabel(st.result.StartID, st.result.StartLabel)

	return nil
}
