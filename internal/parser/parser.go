// Package parser turns the segments of an .LS program into typed model
// values: attributes, instructions, and stored positions.
//
// Parsing never fails. Text that cannot be interpreted is kept verbatim
// (an Other instruction, a raw attribute or position field) and reported
// as a diagnostic with its source line.
package parser

import (
	"fmt"
	"log/slog"

	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// Parser parses the segments of one program and collects diagnostics.
type Parser struct {
	diagnostics []tp.Diagnostic
	types.Logger
}

// New returns a Parser. Pass nil for logger to disable logging.
func New(logger *slog.Logger) *Parser {
	return &Parser{Logger: types.Logger{L: logger}}
}

// Diagnostics returns the diagnostics collected so far.
func (p *Parser) Diagnostics() []tp.Diagnostic {
	return p.diagnostics
}

func (p *Parser) emit(code string, sev tp.Severity, line int, format string, args ...any) {
	p.diagnostics = append(p.diagnostics, tp.Diagnostic{
		Severity: sev,
		Code:     code,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// ParseAttributes parses an /ATTR segment body. firstLine is the file line
// of the body's first line.
func ParseAttributes(seg string, firstLine int) (tp.Attributes, []tp.Diagnostic) {
	p := New(nil)
	a := p.Attributes(seg, firstLine)
	return a, p.diagnostics
}

// ParseInstructions parses an /MN segment body into one instruction per
// logical statement.
func ParseInstructions(seg string, firstLine int) ([]tp.Instruction, []tp.Diagnostic) {
	p := New(nil)
	ins := p.Instructions(seg, firstLine)
	return ins, p.diagnostics
}

// ParsePositions parses a /POS segment body.
func ParsePositions(seg string, firstLine int) (map[int]*tp.Position, []tp.Diagnostic) {
	p := New(nil)
	pos := p.Positions(seg, firstLine)
	return pos, p.diagnostics
}
