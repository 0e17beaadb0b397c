package traverse

import (
	"sort"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// state is the single mutable accumulator a strategy works on: the result
// under construction, the visited set, the current frontier, and the ids
// pending bulk label resolution. A node enters visited and receives its
// depth the moment it is first discovered as a target, not when it is
// later expanded.
type state struct {
	result   *graph.Result
	visited  map[string]struct{}
	frontier map[string]struct{}

	// pendingIDs collects property and entity ids whose labels the
	// REST-based strategies resolve in one bulk call at the end.
	pendingIDs map[string]struct{}
}

func newState(startID, startLabel string, maxDepth int) *state {
	return &state{
		result:     graph.NewResult(startID, startLabel, maxDepth),
		visited:    map[string]struct{}{startID: {}},
		frontier:   map[string]struct{}{startID: {}},
		pendingIDs: map[string]struct{}{startID: {}},
	}
}

// discover marks an id as visited at the given depth. It reports whether
// the id was newly discovered; an already-visited id keeps its original
// depth (first discovery wins).
func (s *state) discover(id string, depth int) bool {
	if _, ok := s.visited[id]; ok {
		return false
	}
	s.visited[id] = struct{}{}
	s.result.SetDepth(id, depth)
	return true
}

// addPending queues ids for the end-of-run bulk label resolution.
func (s *state) addPending(ids map[string]struct{}) {
	for id := range ids {
		s.pendingIDs[id] = struct{}{}
	}
}

// frontierIDs returns the current frontier sorted, so batched queries are
// deterministic for a fixed external snapshot.
func (s *state) frontierIDs() []string {
	ids := make([]string, 0, len(s.frontier))
	for id := range s.frontier {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// pendingIDList returns the pending label ids sorted for stable batching.
func (s *state) pendingIDList() []string {
	ids := make([]string, 0, len(s.pendingIDs))
	for id := range s.pendingIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
