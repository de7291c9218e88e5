package flow

import (
	"slices"

	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/tp"
)

// ErrorHandlers lists the recovery actions of every error-class node of g,
// in label order. g must have been extracted from p.
func ErrorHandlers(p *tp.Program, g *tp.FlowGraph, conv *config.Conventions) []tp.ErrorHandler {
	nodes := g.ByClass(tp.LabelError)
	slices.SortStableFunc(nodes, func(a, b tp.FlowNode) int { return a.Label - b.Label })

	out := make([]tp.ErrorHandler, 0, len(nodes))
	for _, n := range nodes {
		h := tp.ErrorHandler{Label: n.Label, Name: n.Name}
		for i := n.Start; i < n.End; i++ {
			in, _ := p.Instruction(i)
			if a, ok := action(in, conv); ok {
				h.Actions = append(h.Actions, a)
			}
		}
		out = append(out, h)
	}
	return out
}

func action(in tp.Instruction, conv *config.Conventions) (tp.HandlerAction, bool) {
	a := tp.HandlerAction{Line: in.Line, Text: in.Raw}
	switch pl := in.Payload.(type) {
	case *tp.Comment, *tp.LabelDef:
		return a, false
	case *tp.End:
		if pl.Keyword == "ABORT" {
			a.Kind = tp.ActionAbort
			return a, true
		}
	}

	var callee string
	if c, ok := in.Payload.(*tp.Call); ok {
		callee = c.Target
	}
	if kind, ok := conv.MatchAction(in.Raw, callee); ok {
		a.Kind = kind
		return a, true
	}

	switch pl := in.Payload.(type) {
	case *tp.Call:
		a.Kind = tp.ActionCall
		return a, true
	case *tp.IOAssign:
		if !pl.Signal.IsInput() {
			a.Kind = tp.ActionOutputChange
			return a, true
		}
	}
	return a, false
}

// Homing summarizes the homing-class nodes of g. It returns false when the
// program has none.
func Homing(p *tp.Program, g *tp.FlowGraph, conv *config.Conventions) (tp.HomingSummary, bool) {
	nodes := g.ByClass(tp.LabelHoming)
	if len(nodes) == 0 {
		return tp.HomingSummary{}, false
	}

	var h tp.HomingSummary
	for _, n := range nodes {
		h.Labels = append(h.Labels, n.Label)
		for i := n.Start; i < n.End; i++ {
			in, _ := p.Instruction(i)
			if !isCheck(in, conv) {
				continue
			}
			h.Checks = append(h.Checks, in.Raw)
			if z, ok := conv.Zone(in.Raw); ok && !slices.Contains(h.Zones, z) {
				h.Zones = append(h.Zones, z)
			}
		}
	}
	slices.Sort(h.Labels)
	return h, true
}

// isCheck reports whether in is a guarded jump or touches a zone flag
// register.
func isCheck(in tp.Instruction, conv *config.Conventions) bool {
	if j, ok := in.Payload.(*tp.Jump); ok && j.Conditional {
		return true
	}
	if in.IsComment() {
		return false
	}
	for _, r := range in.Refs {
		if r.Kind == tp.SymbolRegister && conv.HomingCheck(r.Index) {
			return true
		}
	}
	return false
}
