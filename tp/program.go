package tp

import (
	"iter"
	"maps"
	"slices"
	"time"
)

// Program is a parsed and assembled teach-pendant program.
// A Program is immutable once its builder has returned it.
type Program struct {
	name        string
	file        string
	typ         ProgramType
	role        string
	productCode string
	iml         bool
	attrs       Attributes

	instructions []Instruction
	positions    map[int]*Position
	labels       map[int]int // label number -> instruction index
	diagnostics  []Diagnostic
	stats        ProgramStats
}

// ProgramStats are per-program counts used by reports.
type ProgramStats struct {
	Instructions int
	Comments     int
	Labels       int
	ErrorLabels  int
	Calls        int
	Jumps        int
	Motions      int
	Positions    int
	Registers    int // register and position-register assignments
	IOAssigns    int
	Waits        int
}

// Name returns the program name from the /PROG header.
func (p *Program) Name() string { return p.name }

// File returns the path the program was read from.
func (p *Program) File() string { return p.file }

// Type returns the coarse program classification.
func (p *Program) Type() ProgramType { return p.typ }

// Role returns the functional role from the classification table, or "".
func (p *Program) Role() string { return p.role }

// ProductCode returns the product variant encoded in the name, or "".
func (p *Program) ProductCode() string { return p.productCode }

// IML reports whether the program handles in-mold labeling.
func (p *Program) IML() bool { return p.iml }

// Attributes returns the /ATTR block.
func (p *Program) Attributes() Attributes {
	a := p.attrs
	a.Fields = slices.Clone(p.attrs.Fields)
	return a
}

// Owner returns the OWNER attribute.
func (p *Program) Owner() string { return p.attrs.Owner }

// Comment returns the COMMENT attribute.
func (p *Program) Comment() string { return p.attrs.Comment }

// Size returns the PROG_SIZE attribute.
func (p *Program) Size() int { return p.attrs.Size }

// LineCount returns the declared LINE_COUNT attribute.
func (p *Program) LineCount() int { return p.attrs.LineCount }

// Created returns the CREATE timestamp, zero if absent.
func (p *Program) Created() time.Time { return p.attrs.Created }

// Modified returns the MODIFIED timestamp, zero if absent.
func (p *Program) Modified() time.Time { return p.attrs.Modified }

// Instructions returns a deep copy of the instruction sequence.
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, len(p.instructions))
	for i, ins := range p.instructions {
		out[i] = ins.Clone()
	}
	return out
}

// InstructionCount returns the number of instructions without copying them.
func (p *Program) InstructionCount() int { return len(p.instructions) }

// Instruction returns a copy of the instruction at index i.
func (p *Program) Instruction(i int) (Instruction, bool) {
	if i < 0 || i >= len(p.instructions) {
		return Instruction{}, false
	}
	return p.instructions[i].Clone(), true
}

// All iterates copies of the instructions with their index.
func (p *Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(int, Instruction) bool) {
		for i, ins := range p.instructions {
			if !yield(i, ins.Clone()) {
				return
			}
		}
	}
}

// Position returns a copy of the stored position with the given id.
func (p *Program) Position(id int) (*Position, bool) {
	pos, ok := p.positions[id]
	return pos.Clone(), ok
}

// Positions returns copies of all stored positions ordered by id.
func (p *Program) Positions() []*Position {
	out := make([]*Position, 0, len(p.positions))
	for _, id := range slices.Sorted(maps.Keys(p.positions)) {
		out = append(out, p.positions[id].Clone())
	}
	return out
}

// Label returns the instruction index of a label definition.
func (p *Program) Label(n int) (int, bool) {
	i, ok := p.labels[n]
	return i, ok
}

// Labels returns the defined label numbers in ascending order.
func (p *Program) Labels() []int {
	return slices.Sorted(maps.Keys(p.labels))
}

// LabelName returns the name given at a label's definition, or "".
func (p *Program) LabelName(n int) string {
	i, ok := p.labels[n]
	if !ok {
		return ""
	}
	if def, ok := p.instructions[i].Payload.(*LabelDef); ok {
		return def.Name
	}
	return ""
}

// Calls returns copies of the call instructions in program order.
func (p *Program) Calls() []Instruction {
	var out []Instruction
	for _, ins := range p.instructions {
		if ins.Kind() == KindCall {
			out = append(out, ins.Clone())
		}
	}
	return out
}

// Diagnostics returns the issues found while assembling this program.
func (p *Program) Diagnostics() []Diagnostic { return slices.Clone(p.diagnostics) }

// HasErrors reports whether any diagnostic is Error severity or worse.
func (p *Program) HasErrors() bool {
	return slices.ContainsFunc(p.diagnostics, func(d Diagnostic) bool {
		return d.Severity <= SeverityError
	})
}

// Stats returns the program statistics.
func (p *Program) Stats() ProgramStats { return p.stats }

// ProgramBuilder constructs a Program.
//
// This type is intended for internal use by the assembler.
// Most users should use the Load functions from the gotp package instead.
type ProgramBuilder struct {
	p           *Program
	errorLabels int
}

// NewProgramBuilder starts a program with the given name and source file.
func NewProgramBuilder(name, file string) *ProgramBuilder {
	return &ProgramBuilder{p: &Program{
		name:      name,
		file:      file,
		positions: make(map[int]*Position),
		labels:    make(map[int]int),
	}}
}

// SetClassification sets the program type and role.
func (b *ProgramBuilder) SetClassification(t ProgramType, role string) {
	b.p.typ = t
	b.p.role = role
}

// SetProductCode sets the product variant.
func (b *ProgramBuilder) SetProductCode(code string) { b.p.productCode = code }

// SetIML sets the in-mold labeling flag.
func (b *ProgramBuilder) SetIML(v bool) { b.p.iml = v }

// SetAttributes sets the /ATTR block.
func (b *ProgramBuilder) SetAttributes(a Attributes) { b.p.attrs = a }

// SetInstructions sets the instruction sequence.
func (b *ProgramBuilder) SetInstructions(ins []Instruction) { b.p.instructions = ins }

// SetPositions sets the stored positions.
func (b *ProgramBuilder) SetPositions(pos map[int]*Position) {
	if pos != nil {
		b.p.positions = pos
	}
}

// SetLabel records the instruction index of a label definition.
func (b *ProgramBuilder) SetLabel(n, index int) { b.p.labels[n] = index }

// SetErrorLabelCount records how many labels fall in the error range.
func (b *ProgramBuilder) SetErrorLabelCount(n int) { b.errorLabels = n }

// AddDiagnostic attaches a diagnostic to the program.
func (b *ProgramBuilder) AddDiagnostic(d Diagnostic) {
	d.Program = b.p.name
	d.File = b.p.file
	b.p.diagnostics = append(b.p.diagnostics, d)
}

// Program computes statistics and returns the finished program.
// After calling this, the builder should not be used further.
func (b *ProgramBuilder) Program() *Program {
	p := b.p
	p.stats = computeStats(p)
	p.stats.ErrorLabels = b.errorLabels
	return p
}

func computeStats(p *Program) ProgramStats {
	s := ProgramStats{
		Instructions: len(p.instructions),
		Positions:    len(p.positions),
	}
	for _, ins := range p.instructions {
		switch ins.Payload.(type) {
		case *Comment:
			s.Comments++
		case *LabelDef:
			s.Labels++
		case *Call:
			s.Calls++
		case *Jump:
			s.Jumps++
		case *Motion:
			s.Motions++
		case *RegisterAssign:
			s.Registers++
		case *IOAssign:
			s.IOAssigns++
		case *WaitCondition:
			s.Waits++
		}
	}
	return s
}
