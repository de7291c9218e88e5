// Package program assembles the parsed segments of one .LS file into an
// immutable tp.Program.
package program

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/parser"
	"github.com/gotp/gotp/internal/section"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// assembleContext tracks state while one program is assembled.
type assembleContext struct {
	file string
	conv *config.Conventions
	b    *tp.ProgramBuilder
	types.Logger
}

func (ctx *assembleContext) emit(code string, sev tp.Severity, line int, format string, args ...any) {
	ctx.b.AddDiagnostic(tp.Diagnostic{
		Severity: sev,
		Code:     code,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Assemble splits, parses, and classifies one program file.
//
// Structural problems are attached to the program as diagnostics; the only
// error is section.ErrEmptyFile, returned for empty or blank text. A nil
// conv uses config.Default. If logger is nil, logging is disabled.
func Assemble(file string, text []byte, conv *config.Conventions, logger *slog.Logger) (*tp.Program, error) {
	f, err := section.Split(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if len(f.Segments) == 0 && strings.TrimSpace(f.Preamble) == "" {
		return nil, fmt.Errorf("%s: %w", file, section.ErrEmptyFile)
	}
	if conv == nil {
		conv = config.Default()
	}

	name := f.Name()
	fallback := name == ""
	if fallback {
		name = Stem(file)
	}
	ctx := &assembleContext{
		file:   file,
		conv:   conv,
		b:      tp.NewProgramBuilder(name, file),
		Logger: types.Logger{L: logger},
	}
	if fallback {
		line := 0
		if seg, ok := f.Segment(section.MarkerProg); ok {
			line = seg.Line
		}
		ctx.emit(types.DiagMissingProgramName, tp.SeverityError, line,
			"no program name after /PROG, using file name %q", name)
	}

	ctx.Log(slog.LevelDebug, "assembling program",
		slog.String("program", name),
		slog.String("file", file),
		slog.Int("segments", len(f.Segments)))

	ctx.checkStructure(f, text)

	p := parser.New(logger)
	var attrs tp.Attributes
	if seg, ok := f.Segment(section.MarkerAttr); ok {
		attrs = p.Attributes(seg.Body(), seg.BodyLine())
	}
	var ins []tp.Instruction
	if seg, ok := f.Segment(section.MarkerMN); ok {
		ins = p.Instructions(seg.Body(), seg.BodyLine())
	}
	var pos map[int]*tp.Position
	if seg, ok := f.Segment(section.MarkerPos); ok {
		pos = p.Positions(seg.Body(), seg.BodyLine())
	}
	for _, d := range p.Diagnostics() {
		ctx.b.AddDiagnostic(d)
	}

	ctx.b.SetAttributes(attrs)
	ctx.b.SetInstructions(ins)
	ctx.b.SetPositions(pos)
	ctx.buildLabels(ins)
	ctx.classify(name, ins)

	if attrs.LineCount > 0 && attrs.LineCount != len(ins) {
		ctx.emit(types.DiagLineCountMismatch, tp.SeverityInfo, lineOf(attrs, "LINE_COUNT"),
			"LINE_COUNT is %d but /MN holds %d statements", attrs.LineCount, len(ins))
	}

	prog := ctx.b.Program()
	ctx.Log(slog.LevelDebug, "program assembled",
		slog.String("program", prog.Name()),
		slog.String("type", prog.Type().String()),
		slog.Int("instructions", prog.InstructionCount()),
		slog.Int("labels", len(prog.Labels())),
		slog.Int("positions", len(pos)),
		slog.Int("diagnostics", len(prog.Diagnostics())))
	return prog, nil
}

// checkStructure reports missing, repeated, and stray sections.
func (ctx *assembleContext) checkStructure(f *section.File, text []byte) {
	if strings.TrimSpace(f.Preamble) != "" {
		ctx.emit(types.DiagMalformedProgram, tp.SeverityError, 1,
			"content before the first section marker")
	}

	lastLine := strings.Count(string(text), "\n") + 1
	for _, m := range f.Missing() {
		if m == section.MarkerEnd {
			ctx.emit(types.DiagMalformedProgram, tp.SeverityError, lastLine,
				"missing %s terminator", m)
			continue
		}
		ctx.emit(types.DiagMalformedProgram, tp.SeverityError, 0,
			"missing %s section", m)
	}

	for _, seg := range f.Duplicates() {
		ctx.emit(types.DiagMalformedProgram, tp.SeverityError, seg.Line,
			"repeated %s section ignored", seg.Marker)
	}

	if strings.TrimSpace(f.Trailing) != "" {
		line := 0
		if seg, ok := f.Segment(section.MarkerEnd); ok {
			line = seg.Line + 1
		}
		ctx.emit(types.DiagMalformedProgram, tp.SeverityMinor, line,
			"content after /END")
	}
}

// buildLabels records each label's defining instruction. A repeated
// definition keeps the first.
func (ctx *assembleContext) buildLabels(ins []tp.Instruction) {
	seen := make(map[int]int)
	errorLabels := 0
	for i, in := range ins {
		def, ok := in.Payload.(*tp.LabelDef)
		if !ok {
			continue
		}
		if first, dup := seen[def.Number]; dup {
			ctx.emit(types.DiagDuplicateLabel, tp.SeverityError, in.Line,
				"LBL[%d] already defined at line %d", def.Number, ins[first].Line)
			continue
		}
		seen[def.Number] = i
		ctx.b.SetLabel(def.Number, i)
		if ctx.conv.ClassifyLabel(def.Number, def.Name) == tp.LabelError {
			errorLabels++
		}
		if ctx.TraceEnabled() {
			ctx.Trace("label",
				slog.Int("label", def.Number),
				slog.String("name", def.Name),
				slog.Int("line", in.Line))
		}
	}
	ctx.b.SetErrorLabelCount(errorLabels)
}

// classify sets type, role, product code, and the IML flag.
func (ctx *assembleContext) classify(name string, ins []tp.Instruction) {
	typ, role := ctx.conv.ClassifyProgram(name)
	ctx.b.SetClassification(typ, role)
	ctx.b.SetProductCode(ctx.conv.ProductCode(name))

	iml := ctx.conv.IMLName(name)
	if !iml && typ == tp.ProgramMain {
		for _, in := range ins {
			if !in.IsComment() && ctx.conv.IMLContent(in.Raw) {
				iml = true
				break
			}
		}
	}
	ctx.b.SetIML(iml)

	ctx.Log(slog.LevelDebug, "classified program",
		slog.String("program", name),
		slog.String("type", typ.String()),
		slog.String("role", role),
		slog.Bool("iml", iml))
}

// Stem returns the file name without directory and extension, upper-cased
// the way the controller names programs.
func Stem(file string) string {
	base := filepath.Base(file)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

func lineOf(a tp.Attributes, key string) int {
	for _, f := range a.Fields {
		if f.Key == key {
			return f.Line
		}
	}
	return 0
}
