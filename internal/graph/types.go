// Package graph holds the labeled directed graph produced by a traversal:
// edges as (source, property, target) triples, the depth at which each
// entity was first discovered, and an id-to-label map.
package graph

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Edge is a single (subject, predicate, object) triple. Source and Target
// are entity ids, Property is a relation-type id.
type Edge struct {
	Source   string `json:"source"`
	Property string `json:"property"`
	Target   string `json:"target"`
}

// Result accumulates the output of one traversal run. It is owned by a
// single traversal invocation and never shared across runs, so no locking
// is needed. Duplicate edges are kept as returned by the upstream fetches.
type Result struct {
	StartID    string
	StartLabel string
	MaxDepth   int

	edges []Edge

	// depths records the BFS level at which each entity was first
	// discovered, in discovery order. First discovery wins.
	depths *orderedmap.OrderedMap[string, int]

	labels map[string]string
}

// NewResult creates an empty Result with the start entity at depth 0.
func NewResult(startID, startLabel string, maxDepth int) *Result {
	r := &Result{
		StartID:    startID,
		StartLabel: startLabel,
		MaxDepth:   maxDepth,
		depths:     orderedmap.NewOrderedMap[string, int](),
		labels:     make(map[string]string),
	}
	r.depths.Set(startID, 0)
	r.labels[startID] = startLabel
	return r
}

// AddEdge appends an edge. Edges are intentionally not deduplicated: a
// triple returned twice by upstream fetches appears twice.
func (r *Result) AddEdge(e Edge) {
	r.edges = append(r.edges, e)
}

// Edges returns all accumulated edges in insertion order.
func (r *Result) Edges() []Edge {
	return r.edges
}

// SetDepth records the discovery depth for an entity. The first recorded
// depth wins; later writes for the same id are ignored.
func (r *Result) SetDepth(id string, depth int) {
	if _, ok := r.depths.Get(id); ok {
		return
	}
	r.depths.Set(id, depth)
}

// DepthOf returns the discovery depth for an entity id.
func (r *Result) DepthOf(id string) (int, bool) {
	return r.depths.Get(id)
}

// Depths returns the depth map as a plain map.
func (r *Result) Depths() map[string]int {
	m := make(map[string]int, r.depths.Len())
	for el := r.depths.Front(); el != nil; el = el.Next() {
		m[el.Key] = el.Value
	}
	return m
}

// SetLabel records a label for an id. Last writer wins, so a later, more
// authoritative source overwrites an earlier fallback.
func (r *Result) SetLabel(id, label string) {
	r.labels[id] = label
}

// MergeLabels merges a batch of resolved labels into the label map.
func (r *Result) MergeLabels(labels map[string]string) {
	for id, label := range labels {
		r.labels[id] = label
	}
}

// LabelFor returns the label for an id, falling back to the id itself
// when no label was resolved.
func (r *Result) LabelFor(id string) string {
	if label, ok := r.labels[id]; ok {
		return label
	}
	return id
}

// Labels returns the accumulated id-to-label map.
func (r *Result) Labels() map[string]string {
	return r.labels
}

// NodeCount returns the number of discovered entities.
func (r *Result) NodeCount() int {
	return r.depths.Len()
}

// EdgeCount returns the number of accumulated edges.
func (r *Result) EdgeCount() int {
	return len(r.edges)
}
