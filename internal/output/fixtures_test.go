package output

import (
	"github.com/conceptmap/conceptmap/internal/graph"
)

// adaResult builds a small two-level traversal result shared across the
// rendering tests.
func adaResult() *graph.Result {
	res := graph.NewResult("Q7259", "Ada Lovelace", 2)

	res.AddEdge(graph.Edge{Source: "Q7259", Property: "P31", Target: "Q5"})
	res.AddEdge(graph.Edge{Source: "Q7259", Property: "P19", Target: "Q84"})
	res.SetDepth("Q5", 1)
	res.SetDepth("Q84", 1)

	res.AddEdge(graph.Edge{Source: "Q84", Property: "P17", Target: "Q145"})
	res.SetDepth("Q145", 2)

	// Q145 is deliberately left unlabeled to exercise the id fallback.
	res.MergeLabels(map[string]string{
		"Q5":  "human",
		"Q84": "London",
		"P31": "instance of",
		"P19": "place of birth",
		"P17": "country",
	})
	return res
}
