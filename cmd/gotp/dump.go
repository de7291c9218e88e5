package main

import (
	"encoding/json"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/cmd/internal/cliutil"
	"github.com/gotp/gotp/tp"
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Output the analysis as JSON or YAML",
		ArgsUsage: "[PROGRAM...]",
		Description: `Without arguments every program is dumped. Named programs restrict the
program list; the corpus tables are always included.

Examples:
  gotp -p backup dump
  gotp -p backup dump --format yaml A_1PA005
  gotp -p backup dump --instructions -o model.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json, yaml"},
			&cli.BoolFlag{Name: "instructions", Usage: "Include every statement"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to `FILE` instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != "json" && format != "yaml" {
				return fail("unknown format: %s", format)
			}

			a, err := loadAnalysis(c)
			if err != nil {
				return fail("load failed: %v", err)
			}

			var names []string
			for _, n := range c.Args().Slice() {
				name := strings.ToUpper(n)
				if a.Program(name) == nil {
					return fail("program not found: %s", n)
				}
				names = append(names, name)
			}

			out, closeOut, err := cliutil.GetOutput(c.String("output"), c.App.Writer)
			if err != nil {
				return fail("%v", err)
			}
			defer closeOut()

			doc := buildDump(a, names, c.Bool("instructions"))
			if err := writeDump(out, doc, format); err != nil {
				return fail("output encoding failed: %v", err)
			}
			return nil
		},
	}
}

func writeDump(w io.Writer, doc *DumpOutput, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// buildDump converts the analysis. An empty names list selects every
// program.
func buildDump(a *gotp.Analysis, names []string, instructions bool) *DumpOutput {
	doc := &DumpOutput{}
	for _, p := range a.Programs() {
		if len(names) > 0 && !slices.Contains(names, p.Name()) {
			continue
		}
		doc.Programs = append(doc.Programs, programJSON(a, p, instructions))
	}

	syms := a.Symbols()
	doc.Registers = symbolsJSON(syms.Registers.Symbols())
	doc.PosRegs = symbolsJSON(syms.PositionRegisters.Symbols())
	doc.Signals = symbolsJSON(syms.Signals.Symbols())

	cg := a.CallGraph()
	calls := &CallGraphJSON{
		External: cg.External,
		Cycles:   cg.Cycles,
		Order:    cg.Order,
	}
	for _, e := range cg.Edges {
		calls.Edges = append(calls.Edges, CallEdgeJSON{Caller: e.Caller, Callee: e.Callee, Line: e.Line, Args: e.Args})
	}
	doc.Calls = calls

	for _, f := range a.Failures() {
		doc.Failures = append(doc.Failures, FailureJSON{File: f.File, Error: f.Err.Error()})
	}
	for _, d := range a.Diagnostics() {
		doc.Diagnostics = append(doc.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Program:  d.Program,
			Line:     d.Line,
		})
	}
	return doc
}

func programJSON(a *gotp.Analysis, p *gotp.Program, instructions bool) ProgramJSON {
	pj := ProgramJSON{
		Name:        p.Name(),
		File:        p.File(),
		Type:        p.Type().String(),
		Role:        p.Role(),
		ProductCode: p.ProductCode(),
		IML:         p.IML(),
		Comment:     p.Comment(),
		Size:        p.Size(),
		LineCount:   p.LineCount(),
		Created:     formatTime(p.Created()),
		Modified:    formatTime(p.Modified()),
	}

	g := a.Flow(p.Name())
	for _, n := range p.Labels() {
		lj := LabelJSON{Number: n, Name: p.LabelName(n), Class: tp.LabelUnclassified.String()}
		if g != nil {
			if node, ok := g.Node(n); ok {
				lj.Class = node.Class.String()
			}
		}
		pj.Labels = append(pj.Labels, lj)
	}

	for _, pos := range p.Positions() {
		pj.Positions = append(pj.Positions, PositionJSON{
			ID:      pos.ID,
			Comment: pos.Comment,
			Form:    pos.Representation().String(),
			Values:  pos.Values(),
		})
	}

	if instructions {
		for _, in := range p.Instructions() {
			pj.Instructions = append(pj.Instructions, InstructionJSON{Line: in.Line, Kind: in.Kind().String(), Raw: in.Raw})
		}
	}

	if g != nil && len(g.Nodes) > 0 {
		fj := &FlowJSON{}
		for _, e := range g.Edges {
			fj.Edges = append(fj.Edges, EdgeJSON{
				From:        e.From,
				To:          e.To,
				Kind:        e.Kind.String(),
				Condition:   e.Condition,
				Callee:      e.Callee,
				Unreachable: e.Unreachable,
			})
		}
		for _, h := range a.ErrorHandlers(p.Name()) {
			hj := HandlerJSON{Label: h.Label, Name: h.Name, Actions: []string{}}
			for _, act := range h.Actions {
				hj.Actions = append(hj.Actions, string(act.Kind))
			}
			fj.Handlers = append(fj.Handlers, hj)
		}
		if h, ok := a.Homing(p.Name()); ok {
			fj.Homing = &HomingJSON{Labels: h.Labels, Checks: h.Checks, Zones: h.Zones}
		}
		pj.Flow = fj
	}
	return pj
}

func symbolsJSON(syms []*tp.Symbol) []SymbolJSON {
	var out []SymbolJSON
	for _, s := range syms {
		out = append(out, SymbolJSON{
			Key:        s.Key.String(),
			Names:      s.Names,
			Usage:      s.Usage,
			References: s.References,
			Programs:   s.Programs,
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateTime)
}
