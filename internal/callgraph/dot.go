package callgraph

import (
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"github.com/gotp/gotp/tp"
)

// Lattice converts the call graph to a deduplicated lattice graph.
func Lattice(cg *tp.CallGraph) *lattice.Graph {
	g := &lattice.Graph{}
	g.Nodes = append(g.Nodes, cg.Nodes...)
	for _, e := range cg.Edges {
		g.Edges = append(g.Edges, lattice.Edge{
			Caller: e.Caller,
			Callee: e.Callee,
		})
	}
	g.Dedup()
	return g
}

// DOT renders the call graph in Graphviz format.
func DOT(cg *tp.CallGraph, title string) string {
	return render.DOT(Lattice(cg), title)
}
