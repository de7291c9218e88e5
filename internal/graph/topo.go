package graph

import "slices"

// TopologicalOrder returns nodes ordered so that callers come before their
// callees (Kahn's algorithm, ties broken by name). Nodes on or behind a
// cycle are returned separately, sorted.
func (g *Graph) TopologicalOrder() (order []string, cyclic []string) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, deps := range g.edges {
		for _, dep := range deps {
			inDegree[dep]++
		}
	}

	var queue []string
	for _, n := range g.Nodes() {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		var ready []string
		for _, dep := range g.edges[n] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		slices.Sort(ready)
		queue = append(queue, ready...)
	}

	for n, degree := range inDegree {
		if degree > 0 {
			cyclic = append(cyclic, n)
		}
	}
	slices.Sort(cyclic)

	return order, cyclic
}

// CallOrder returns every node with callers before callees, followed by
// the nodes that take part in or hang off a cycle.
func (g *Graph) CallOrder() []string {
	order, cyclic := g.TopologicalOrder()
	return append(order, cyclic...)
}

// BottomUp returns nodes with callees before callers, the reverse of
// TopologicalOrder. Cyclic nodes are omitted.
func (g *Graph) BottomUp() []string {
	order, _ := g.TopologicalOrder()
	slices.Reverse(order)
	return order
}
