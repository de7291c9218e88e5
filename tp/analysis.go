// Package tp provides the analyzed model of a corpus of teach-pendant
// (.LS) robot programs: programs, instructions, positions, symbol tables,
// the call graph, and per-program flow graphs.
package tp

import (
	"cmp"
	"maps"
	"slices"
)

// Failure records a file that produced no program.
type Failure struct {
	File string
	Err  error
}

// Analysis is the result of analyzing a corpus.
type Analysis struct {
	programs    []*Program
	byName      map[string]*Program
	symbols     *SymbolTables
	calls       *CallGraph
	flows       map[string]*FlowGraph
	handlers    map[string][]ErrorHandler
	homing      map[string]HomingSummary
	failures    []Failure
	diagnostics []Diagnostic
}

// Programs returns all programs ordered by name.
func (a *Analysis) Programs() []*Program { return slices.Clone(a.programs) }

// ProgramCount returns the number of programs.
func (a *Analysis) ProgramCount() int { return len(a.programs) }

// Program returns the program with the given name, or nil.
func (a *Analysis) Program(name string) *Program { return a.byName[name] }

// ProgramsOfType returns the programs of one type, ordered by name.
func (a *Analysis) ProgramsOfType(t ProgramType) []*Program {
	var out []*Program
	for _, p := range a.programs {
		if p.Type() == t {
			out = append(out, p)
		}
	}
	return out
}

// Symbols returns the corpus symbol tables.
func (a *Analysis) Symbols() *SymbolTables { return a.symbols }

// CallGraph returns the corpus call graph.
func (a *Analysis) CallGraph() *CallGraph { return a.calls }

// Flow returns the flow graph of a program, or nil.
func (a *Analysis) Flow(name string) *FlowGraph { return a.flows[name] }

// FlowNames returns the programs that have a flow graph, sorted.
func (a *Analysis) FlowNames() []string {
	return slices.Sorted(maps.Keys(a.flows))
}

// ErrorHandlers returns the error-label inventory of a program.
func (a *Analysis) ErrorHandlers(name string) []ErrorHandler {
	return slices.Clone(a.handlers[name])
}

// Homing returns the homing summary of a program.
func (a *Analysis) Homing(name string) (HomingSummary, bool) {
	h, ok := a.homing[name]
	return h, ok
}

// Failures returns the files that produced no program.
func (a *Analysis) Failures() []Failure { return slices.Clone(a.failures) }

// Diagnostics returns all reported diagnostics.
func (a *Analysis) Diagnostics() []Diagnostic { return slices.Clone(a.diagnostics) }

// HasErrors reports whether any diagnostic is Error severity or worse.
func (a *Analysis) HasErrors() bool {
	return slices.ContainsFunc(a.diagnostics, func(d Diagnostic) bool {
		return d.Severity <= SeverityError
	})
}

// Builder constructs an Analysis.
//
// This type is intended for internal use by the analyzer.
// Most users should use the Load functions from the gotp package instead.
type Builder struct {
	a *Analysis
}

// NewBuilder creates a Builder with an empty Analysis.
func NewBuilder() *Builder {
	return &Builder{a: &Analysis{
		byName:   make(map[string]*Program),
		flows:    make(map[string]*FlowGraph),
		handlers: make(map[string][]ErrorHandler),
		homing:   make(map[string]HomingSummary),
		symbols:  &SymbolTables{},
		calls:    &CallGraph{},
	}}
}

// AddProgram adds a program. The first program registered under a name wins.
func (b *Builder) AddProgram(p *Program) bool {
	if _, exists := b.a.byName[p.Name()]; exists {
		return false
	}
	b.a.byName[p.Name()] = p
	b.a.programs = append(b.a.programs, p)
	return true
}

// SetSymbols sets the corpus symbol tables.
func (b *Builder) SetSymbols(s *SymbolTables) { b.a.symbols = s }

// SetCallGraph sets the corpus call graph.
func (b *Builder) SetCallGraph(g *CallGraph) { b.a.calls = g }

// AddFlow sets the flow graph and derived views of a program.
func (b *Builder) AddFlow(g *FlowGraph, handlers []ErrorHandler, homing *HomingSummary) {
	b.a.flows[g.Program] = g
	if len(handlers) > 0 {
		b.a.handlers[g.Program] = handlers
	}
	if homing != nil {
		b.a.homing[g.Program] = *homing
	}
}

// AddFailure records a file that produced no program.
func (b *Builder) AddFailure(f Failure) { b.a.failures = append(b.a.failures, f) }

// AddDiagnostic records a reported diagnostic.
func (b *Builder) AddDiagnostic(d Diagnostic) { b.a.diagnostics = append(b.a.diagnostics, d) }

// Analysis returns the constructed Analysis with programs ordered by name.
// After calling this, the Builder should not be used further.
func (b *Builder) Analysis() *Analysis {
	slices.SortFunc(b.a.programs, func(x, y *Program) int {
		return cmp.Compare(x.Name(), y.Name())
	})
	slices.SortFunc(b.a.failures, func(x, y Failure) int {
		return cmp.Compare(x.File, y.File)
	})
	return b.a
}
