// Package flow reconstructs the label-level control flow of a program and
// derives its state machine, error handler inventory, and homing summary.
package flow

import (
	"fmt"

	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// Extract builds the flow graph of p.
//
// Every defined label starts a node whose range runs to the next label
// definition. Instructions before the first label form a synthetic entry
// node. Jumps to labels the program never defines are reported as
// undefined-label diagnostics and produce no edge.
func Extract(p *tp.Program, conv config.LabelConventions) *tp.FlowGraph {
	ins := p.Instructions()
	g := &tp.FlowGraph{Program: p.Name()}

	var starts []int
	for i, in := range ins {
		def, ok := in.Payload.(*tp.LabelDef)
		if !ok {
			continue
		}
		if idx, _ := p.Label(def.Number); idx == i {
			starts = append(starts, i)
		}
	}

	if first := firstStart(starts, len(ins)); first > 0 {
		g.Nodes = append(g.Nodes, newNode(ins, 0, first, tp.FlowNode{
			Class:     tp.LabelEntry,
			Synthetic: true,
		}, conv.StateActions))
	}
	for k, start := range starts {
		end := len(ins)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		def := ins[start].Payload.(*tp.LabelDef)
		g.Nodes = append(g.Nodes, newNode(ins, start, end, tp.FlowNode{
			Label: def.Number,
			Name:  def.Name,
			Class: conv.Classify(def.Number, def.Name),
		}, conv.StateActions))
	}

	for k, n := range g.Nodes {
		for i := n.Start; i < n.End; i++ {
			in := ins[i]
			switch pl := in.Payload.(type) {
			case *tp.Jump:
				if pl.Indirect != "" {
					continue
				}
				kind := tp.EdgeJump
				if pl.Conditional {
					kind = tp.EdgeConditionalJump
				}
				addJump(g, p, n.Label, pl.Label, kind, pl.Condition, in.Line)
			case *tp.WaitCondition:
				if pl.TimeoutLabel > 0 {
					addJump(g, p, n.Label, pl.TimeoutLabel, tp.EdgeConditionalJump, "TIMEOUT", in.Line)
				}
			case *tp.Call:
				g.Edges = append(g.Edges, tp.FlowEdge{
					From:      n.Label,
					To:        nodeAt(g, i+1).Label,
					Kind:      tp.EdgeCallReturn,
					Condition: pl.Condition,
					Callee:    pl.Target,
					Line:      in.Line,
				})
			}
		}
		if k+1 < len(g.Nodes) {
			g.Edges = append(g.Edges, tp.FlowEdge{
				From:        n.Label,
				To:          g.Nodes[k+1].Label,
				Kind:        tp.EdgeFallthrough,
				Unreachable: n.Terminates,
			})
		}
	}
	return g
}

func firstStart(starts []int, n int) int {
	if len(starts) == 0 {
		return n
	}
	return starts[0]
}

func newNode(ins []tp.Instruction, start, end int, n tp.FlowNode, actions int) tp.FlowNode {
	n.Start = start
	n.End = end
	if start < end {
		n.FirstLine = ins[start].Line
		n.LastLine = ins[end-1].Line
	}
	for i := end - 1; i >= start; i-- {
		if ins[i].IsComment() {
			continue
		}
		n.Terminates = ins[i].Terminates()
		break
	}
	for i := start; i < end && len(n.Actions) < actions; i++ {
		switch ins[i].Payload.(type) {
		case *tp.Comment, *tp.LabelDef:
			continue
		}
		n.Actions = append(n.Actions, ins[i].Raw)
	}
	return n
}

// nodeAt returns the node whose range holds instruction i. Past the last
// instruction it returns the last node.
func nodeAt(g *tp.FlowGraph, i int) tp.FlowNode {
	for _, n := range g.Nodes {
		if i >= n.Start && i < n.End {
			return n
		}
	}
	return g.Nodes[len(g.Nodes)-1]
}

func addJump(g *tp.FlowGraph, p *tp.Program, from, to int, kind tp.EdgeKind, cond string, line int) {
	if _, ok := p.Label(to); !ok {
		g.Diagnostics = append(g.Diagnostics, tp.Diagnostic{
			Severity: tp.SeverityError,
			Code:     types.DiagUndefinedLabel,
			Message:  fmt.Sprintf("jump to undefined LBL[%d]", to),
			Program:  p.Name(),
			File:     p.File(),
			Line:     line,
		})
		return
	}
	g.Edges = append(g.Edges, tp.FlowEdge{
		From:      from,
		To:        to,
		Kind:      kind,
		Condition: cond,
		Line:      line,
	})
}
