package flow

import (
	"fmt"
	"iter"
	"slices"

	"github.com/gotp/gotp/tp"
)

// States yields one state per label node in label order, with the
// transitions leaving it. The sequence is computed lazily and may be
// ranged over any number of times. The synthetic entry node is not a
// state. Names come from names, then the label name, then "LBL[n]".
func States(g *tp.FlowGraph, names map[int]string) iter.Seq2[tp.State, []tp.Transition] {
	return func(yield func(tp.State, []tp.Transition) bool) {
		var nodes []tp.FlowNode
		for _, n := range g.Nodes {
			if !n.Synthetic {
				nodes = append(nodes, n)
			}
		}
		slices.SortStableFunc(nodes, func(a, b tp.FlowNode) int { return a.Label - b.Label })

		for _, n := range nodes {
			st := tp.State{
				Label:     n.Label,
				Name:      stateName(n, names),
				Class:     n.Class,
				FirstLine: n.FirstLine,
				LastLine:  n.LastLine,
				Actions:   slices.Clone(n.Actions),
			}
			var trans []tp.Transition
			for _, e := range g.Out(n.Label) {
				if e.Unreachable {
					continue
				}
				trans = append(trans, tp.Transition{
					Kind:      e.Kind,
					Target:    e.To,
					Condition: e.Condition,
					Callee:    e.Callee,
					Line:      e.Line,
				})
			}
			if !yield(st, trans) {
				return
			}
		}
	}
}

func stateName(n tp.FlowNode, names map[int]string) string {
	if name, ok := names[n.Label]; ok && name != "" {
		return name
	}
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("LBL[%d]", n.Label)
}
