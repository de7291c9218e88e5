package tp

import "fmt"

// FlowNode is a label-delimited instruction range of one program.
type FlowNode struct {
	Label      int // 0 for the synthetic entry node
	Name       string
	Class      LabelClass
	Start      int // first instruction index
	End        int // one past the last instruction index
	FirstLine  int
	LastLine   int
	Terminates bool     // range ends in END, ABORT or an unconditional jump
	Synthetic  bool     // entry node for instructions before the first label
	Actions    []string // leading non-comment statements
}

// Title returns "LBL[n:name]" or "LBL[n]".
func (n FlowNode) Title() string {
	if n.Synthetic {
		return "ENTRY"
	}
	if n.Name != "" {
		return fmt.Sprintf("LBL[%d:%s]", n.Label, n.Name)
	}
	return fmt.Sprintf("LBL[%d]", n.Label)
}

// FlowEdge is a control transfer between two flow nodes.
type FlowEdge struct {
	From        int
	To          int
	Kind        EdgeKind
	Condition   string
	Callee      string // set for call-return edges
	Line        int    // source line of the transferring instruction, 0 for fallthrough
	Unreachable bool   // fallthrough out of a terminating node
}

// FlowGraph is the label-level control-flow graph of one program.
type FlowGraph struct {
	Program     string
	Nodes       []FlowNode // definition order
	Edges       []FlowEdge
	Diagnostics []Diagnostic
}

// Node returns the node for a label.
func (g *FlowGraph) Node(label int) (FlowNode, bool) {
	for _, n := range g.Nodes {
		if n.Label == label {
			return n, true
		}
	}
	return FlowNode{}, false
}

// Out returns the edges leaving a label, in emission order.
func (g *FlowGraph) Out(label int) []FlowEdge {
	var out []FlowEdge
	for _, e := range g.Edges {
		if e.From == label {
			out = append(out, e)
		}
	}
	return out
}

// In returns the edges entering a label.
func (g *FlowGraph) In(label int) []FlowEdge {
	var out []FlowEdge
	for _, e := range g.Edges {
		if e.To == label && !e.Unreachable {
			out = append(out, e)
		}
	}
	return out
}

// ByClass returns the nodes of one label class in definition order.
func (g *FlowGraph) ByClass(c LabelClass) []FlowNode {
	var out []FlowNode
	for _, n := range g.Nodes {
		if n.Class == c {
			out = append(out, n)
		}
	}
	return out
}

// State is one label viewed as a state of the program's state machine.
type State struct {
	Label     int
	Name      string
	Class     LabelClass
	FirstLine int
	LastLine  int
	Actions   []string
}

// Transition leaves a state.
type Transition struct {
	Kind      EdgeKind
	Target    int
	Condition string
	Callee    string
	Line      int
}

// HandlerAction is a recovery step observed inside an error label.
type HandlerAction struct {
	Kind ActionKind
	Line int
	Text string
}

// ErrorHandler summarizes one error label's recovery behavior.
type ErrorHandler struct {
	Label   int
	Name    string
	Actions []HandlerAction
}

// Has reports whether the handler performs an action of kind k.
func (h ErrorHandler) Has(k ActionKind) bool {
	for _, a := range h.Actions {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// HomingSummary describes the homing routine of a program.
type HomingSummary struct {
	Labels []int
	Checks []string // conditional jumps inside homing labels
	Zones  []string // zone keywords mentioned in those labels
}
