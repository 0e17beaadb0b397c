package output

import (
	"encoding/json"
	"io"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// NodeData is one graph node in the Cytoscape element format the web UI
// consumes.
type NodeData struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	QID       string `json:"qid"`
	Depth     int    `json:"depth"`
	Sitelinks int    `json:"sitelinks"`
}

// EdgeData is one graph edge in the Cytoscape element format.
type EdgeData struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label"`
	Property string `json:"property"`
}

// Node wraps NodeData under the "data" key Cytoscape expects.
type Node struct {
	Data NodeData `json:"data"`
}

// Edge wraps EdgeData under the "data" key Cytoscape expects.
type Edge struct {
	Data EdgeData `json:"data"`
}

// Graph is a complete Cytoscape-style payload.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NewNode builds a Cytoscape node element.
func NewNode(id, label string, depth, sitelinks int) Node {
	return Node{Data: NodeData{
		ID:        id,
		Label:     label,
		QID:       id,
		Depth:     depth,
		Sitelinks: sitelinks,
	}}
}

// NewEdge builds a Cytoscape edge element labeled with the property label.
func NewEdge(source, target, label, property string) Edge {
	return Edge{Data: EdgeData{
		Source:   source,
		Target:   target,
		Label:    label,
		Property: property,
	}}
}

// BuildGraph converts a traversal result into the Cytoscape element format.
// Sitelinks counts are a transient traversal signal and are not retained in
// the result, so exported nodes carry zero.
func BuildGraph(res *graph.Result) Graph {
	g := Graph{Nodes: make([]Node, 0, res.NodeCount()), Edges: make([]Edge, 0, res.EdgeCount())}

	for _, level := range res.Levels() {
		for _, id := range level.IDs {
			g.Nodes = append(g.Nodes, NewNode(id, res.LabelFor(id), level.Depth, 0))
		}
	}

	for _, edge := range res.Edges() {
		g.Edges = append(g.Edges, NewEdge(edge.Source, edge.Target, res.LabelFor(edge.Property), edge.Property))
	}

	return g
}

// RenderJSON writes the result as an indented Cytoscape-style JSON graph.
func RenderJSON(w io.Writer, res *graph.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildGraph(res))
}
