package graph

import "slices"

// FindCycles returns all strongly connected components with more than one
// node, plus single nodes with a self-loop, found via Tarjan's algorithm.
// Nodes are visited in sorted order and each component is sorted, so the
// result is deterministic.
func (g *Graph) FindCycles() [][]string {
	var (
		index    int
		stack    []string
		onStack  = make(map[string]bool)
		indices  = make(map[string]int)
		lowlinks = make(map[string]int)
		sccs     [][]string
	)

	var strongConnect func(n string)
	strongConnect = func(n string) {
		indices[n] = index
		lowlinks[n] = index
		index++
		stack = append(stack, n)
		onStack[n] = true

		for _, dep := range g.Successors(n) {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[n] = min(lowlinks[n], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[n] = min(lowlinks[n], indices[dep])
			}
		}

		if lowlinks[n] == indices[n] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == n {
					break
				}
			}
			if len(scc) > 1 || g.HasEdge(scc[0], scc[0]) {
				slices.Sort(scc)
				sccs = append(sccs, scc)
			}
		}
	}

	for _, n := range g.Nodes() {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}

	slices.SortFunc(sccs, func(a, b []string) int { return slices.Compare(a, b) })
	return sccs
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}
