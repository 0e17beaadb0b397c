package output

import (
	"fmt"
	"io"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// RenderTree renders the discovered neighborhood level by level, each node
// annotated with the property of the first edge that reached it.
func RenderTree(w io.Writer, res *graph.Result) error {
	levels := res.Levels()
	if len(levels) == 0 {
		return fmt.Errorf("empty traversal result")
	}

	for _, level := range levels {
		fmt.Fprintf(w, "\n[Depth %d] ", level.Depth)
		switch level.Depth {
		case 0:
			fmt.Fprintln(w, "Root")
		case 1:
			fmt.Fprintln(w, "Direct relations")
		default:
			fmt.Fprintln(w, "Transitive relations")
		}

		for i, id := range level.IDs {
			prefix := "├─"
			if i == len(level.IDs)-1 {
				prefix = "└─"
			}

			via := ""
			if prop, ok := firstIncomingProperty(res, id); ok {
				via = fmt.Sprintf(" [%s]", res.LabelFor(prop))
			}

			fmt.Fprintf(w, "%s %s (%s)%s\n", prefix, res.LabelFor(id), id, via)
		}
	}

	fmt.Fprintf(w, "\nSummary: %d nodes, %d edges\n", res.NodeCount(), res.EdgeCount())
	return nil
}

// firstIncomingProperty finds the property of the first accumulated edge
// pointing at id, which for BFS results is the discovery edge.
func firstIncomingProperty(res *graph.Result, id string) (string, bool) {
	for _, edge := range res.Edges() {
		if edge.Target == id {
			return edge.Property, true
		}
	}
	return "", false
}
