package flow

import (
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"github.com/gotp/gotp/tp"
)

// CFG converts g to a single-function lattice CFG. Each flow node is a
// basic block; call-return edges become call sites of their source block.
func CFG(g *tp.FlowGraph) *lattice.CFGGraph {
	ids := make(map[int]int, len(g.Nodes))
	fn := &lattice.FuncCFG{Name: g.Program}
	for i, n := range g.Nodes {
		ids[n.Label] = i
		fn.Blocks = append(fn.Blocks, &lattice.BasicBlock{
			ID:    i,
			Start: n.Start,
			End:   n.End,
			Term:  n.Terminates,
		})
	}

	for _, e := range g.Edges {
		from := fn.Blocks[ids[e.From]]
		switch e.Kind {
		case tp.EdgeCallReturn:
			from.Calls = append(from.Calls, lattice.CallSite{Offset: e.Line, Callee: e.Callee})
		default:
			if e.Unreachable {
				continue
			}
			cond := ""
			if e.Kind == tp.EdgeConditionalJump {
				cond = e.Condition
			}
			from.Succs = append(from.Succs, lattice.Successor{BlockID: ids[e.To], Cond: cond})
		}
	}
	return &lattice.CFGGraph{Funcs: []*lattice.FuncCFG{fn}}
}

// DOT renders the flow graph in Graphviz format.
func DOT(g *tp.FlowGraph) string {
	return render.DOTCFG(CFG(g), g.Program)
}
