package graph

// Level groups the entities first discovered at one BFS depth, in
// discovery order.
type Level struct {
	Depth int
	IDs   []string
}

// Levels returns the discovered entities grouped by depth, from the root
// outward. Within a level, ids appear in the order they were discovered.
func (r *Result) Levels() []Level {
	byDepth := make(map[int][]string)
	maxDepth := 0
	for el := r.depths.Front(); el != nil; el = el.Next() {
		byDepth[el.Value] = append(byDepth[el.Value], el.Key)
		if el.Value > maxDepth {
			maxDepth = el.Value
		}
	}

	levels := make([]Level, 0, maxDepth+1)
	for depth := 0; depth <= maxDepth; depth++ {
		ids, ok := byDepth[depth]
		if !ok {
			continue
		}
		levels = append(levels, Level{Depth: depth, IDs: ids})
	}
	return levels
}
