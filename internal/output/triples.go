// Package output renders a traversal result as a triple text export, a
// Graphviz DOT diagram, a Cytoscape-style JSON graph, or a terminal tree.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/conceptmap/conceptmap/internal/graph"
)

// WriteTriples writes one "subject — predicate — object" line per edge,
// with a blank line between triples, using resolved labels and falling back
// to raw ids.
func WriteTriples(w io.Writer, res *graph.Result) error {
	for i, edge := range res.Edges() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s — %s — %s\n",
			res.LabelFor(edge.Source),
			res.LabelFor(edge.Property),
			res.LabelFor(edge.Target))
		if err != nil {
			return err
		}
	}
	return nil
}

// TriplesFilename builds the export file name for a traversal, e.g.
// "Ada_Lovelace_depth2_triples.txt".
func TriplesFilename(startLabel string, maxDepth int) string {
	return fmt.Sprintf("%s_depth%d_triples.txt", safeName(startLabel), maxDepth)
}

// DOTFilename builds the diagram file name for a traversal.
func DOTFilename(startLabel string, maxDepth int) string {
	return fmt.Sprintf("%s_depth%d_schema.dot", safeName(startLabel), maxDepth)
}

// JSONFilename builds the JSON export file name for a traversal.
func JSONFilename(startLabel string, maxDepth int) string {
	return fmt.Sprintf("%s_depth%d_graph.json", safeName(startLabel), maxDepth)
}

func safeName(label string) string {
	return strings.ReplaceAll(label, " ", "_")
}
