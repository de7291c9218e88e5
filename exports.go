package gotp

import (
	"iter"

	"github.com/gotp/gotp/internal/callgraph"
	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/flow"
	"github.com/gotp/gotp/tp"
)

// Type aliases for public API - model types come from the tp subpackage.

// Analysis is the result of loading a corpus.
type Analysis = tp.Analysis

// Program is one assembled .LS program.
type Program = tp.Program

// Instruction is one statement of a program's instruction block.
type Instruction = tp.Instruction

// Position is a stored position from the /POS block.
type Position = tp.Position

// Symbol is the corpus-wide usage record of a register or signal.
type Symbol = tp.Symbol

// CallGraph is the corpus call graph.
type CallGraph = tp.CallGraph

// CallTree is a call tree rooted at a main program.
type CallTree = tp.CallTree

// FlowGraph is the label-level control-flow graph of one program.
type FlowGraph = tp.FlowGraph

// State is a label viewed as a state of the program's state machine.
type State = tp.State

// Transition leaves a State.
type Transition = tp.Transition

// ErrorHandler summarizes the recovery behavior of one error label.
type ErrorHandler = tp.ErrorHandler

// HomingSummary describes the homing routine of a program.
type HomingSummary = tp.HomingSummary

// Diagnostic represents a parse or analysis issue.
type Diagnostic = tp.Diagnostic

// Severity for diagnostics.
type Severity = tp.Severity

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig = tp.DiagnosticConfig

// ProgramType classifies a program by naming convention.
type ProgramType = tp.ProgramType

// LabelClass classifies a label by numeric range.
type LabelClass = tp.LabelClass

// Conventions is the installation convention table: label ranges,
// program name patterns, product codes, state names and action markers.
type Conventions = config.Conventions

// DefaultConventions returns the built-in conventions.
func DefaultConventions() *Conventions {
	return config.Default()
}

// LoadConventions reads an HCL, YAML or JSON conventions file and applies
// it over the defaults.
func LoadConventions(path string) (*Conventions, error) {
	return config.LoadFile(path)
}

// States yields the states of a flow graph ordered by label, each with its
// outgoing transitions. names overrides state names by label number; pass
// Conventions.StateNames for the installation's table.
func States(g *FlowGraph, names map[int]string) iter.Seq2[State, []Transition] {
	return flow.States(g, names)
}

// FlowDOT renders a flow graph in Graphviz format.
func FlowDOT(g *FlowGraph) string {
	return flow.DOT(g)
}

// CallGraphDOT renders the corpus call graph in Graphviz format.
func CallGraphDOT(a *Analysis, title string) string {
	return callgraph.DOT(a.CallGraph(), title)
}
