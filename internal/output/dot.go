package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// depthColors and depthSizes style nodes by discovery depth, root outward.
// Depths beyond the palette reuse the last entry.
var depthColors = []string{"lightcoral", "skyblue", "lightgreen", "plum"}

var depthSizes = []string{"16", "13", "11", "10"}

// RenderDOT renders the graph in Graphviz DOT format, nodes colored by
// discovery depth and edges labeled with the property label.
func RenderDOT(w io.Writer, res *graph.Result) error {
	fmt.Fprintln(w, "digraph conceptmap {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=\"rounded,filled\"];")
	fmt.Fprintln(w, "")

	for _, level := range res.Levels() {
		color := depthColors[paletteIndex(level.Depth, len(depthColors))]
		size := depthSizes[paletteIndex(level.Depth, len(depthSizes))]
		for _, id := range level.IDs {
			fmt.Fprintf(w, "  %s [label=\"%s\", fillcolor=%s, fontsize=%s];\n",
				sanitizeID(id), escapeLabel(res.LabelFor(id)), color, size)
		}
	}

	fmt.Fprintln(w, "")

	for _, edge := range res.Edges() {
		fmt.Fprintf(w, "  %s -> %s [label=\"%s\"];\n",
			sanitizeID(edge.Source),
			sanitizeID(edge.Target),
			escapeLabel(res.LabelFor(edge.Property)))
	}

	fmt.Fprintln(w, "}")
	return nil
}

func paletteIndex(depth, size int) int {
	if depth >= size {
		return size - 1
	}
	return depth
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "\\\"")
}

func sanitizeID(id string) string {
	// Entity and property ids are already DOT-safe, but quote anyway.
	return "\"" + strings.ReplaceAll(id, "\"", "") + "\""
}
