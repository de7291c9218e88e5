package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/cmd/internal/cliutil"
	"github.com/gotp/gotp/tp"
)

// Truncation limits of the per-program details.
const (
	detailLabels    = 20
	detailPositions = 10
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Write the corpus analysis report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to `FILE` instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			a, err := loadAnalysis(c)
			if err != nil {
				return fail("load failed: %v", err)
			}
			out, closeOut, err := cliutil.GetOutput(c.String("output"), c.App.Writer)
			if err != nil {
				return fail("%v", err)
			}
			defer closeOut()

			if err := writeReport(out, a, time.Now()); err != nil {
				return fail("writing report: %v", err)
			}
			if path := c.String("output"); path != "" {
				fmt.Fprintf(c.App.Writer, "Report saved to %s (%d programs)\n", path, a.ProgramCount())
			}
			return nil
		},
	}
}

// report writes the fixed report layout. Write errors are sticky and
// returned by writeReport.
type report struct {
	w   *bufio.Writer
	a   *gotp.Analysis
	err error
}

func (r *report) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *report) banner(title string) {
	rule := strings.Repeat("=", 80)
	r.printf("%s\n%s\n%s\n\n", rule, title, rule)
}

func writeReport(w io.Writer, a *gotp.Analysis, now time.Time) error {
	r := &report{w: bufio.NewWriter(w), a: a}

	r.banner("FANUC ROBOT PROGRAM ANALYSIS REPORT")
	r.printf("Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	r.printf("Total Programs: %d\n\n", a.ProgramCount())

	r.summary()
	r.classification()
	r.callGraph()
	r.registerMap()
	r.ioMap()
	r.errorLabels()
	r.failures()
	r.details()

	if r.err != nil {
		return r.err
	}
	return r.w.Flush()
}

var reportTypes = []tp.ProgramType{
	tp.ProgramMain, tp.ProgramSubprogram, tp.ProgramUtility, tp.ProgramSystem, tp.ProgramUnknown,
}

func (r *report) summary() {
	r.banner("EXECUTIVE SUMMARY")

	r.printf("Program Distribution:\n")
	for _, t := range reportTypes {
		if n := len(r.a.ProgramsOfType(t)); n > 0 {
			r.printf("  %s: %d\n", capitalize(t.String()), n)
		}
	}
	r.printf("\n")

	total := 0
	var oldest, newest time.Time
	products := make(map[string]bool)
	for _, p := range r.a.Programs() {
		total += p.LineCount()
		if created := p.Created(); !created.IsZero() {
			if oldest.IsZero() || created.Before(oldest) {
				oldest = created
			}
			if created.After(newest) {
				newest = created
			}
		}
		if code := p.ProductCode(); code != "" {
			products[code] = true
		}
	}
	r.printf("Total Lines of Code: %d\n\n", total)

	if !oldest.IsZero() {
		r.printf("Oldest Program: %s\n", oldest.Format("2006-01-02"))
		r.printf("Newest Program: %s\n\n", newest.Format("2006-01-02"))
	}
	if len(products) > 0 {
		codes := make([]string, 0, len(products))
		for code := range products {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		r.printf("Products Supported: %s\n\n", strings.Join(codes, ", "))
	}
}

func (r *report) classification() {
	r.banner("PROGRAM CLASSIFICATION")

	for _, t := range reportTypes {
		progs := r.a.ProgramsOfType(t)
		if len(progs) == 0 {
			continue
		}
		r.printf("%s PROGRAMS (%d):\n", strings.ToUpper(t.String()), len(progs))
		r.printf("%s\n", strings.Repeat("-", 40))
		for _, p := range progs {
			r.printf("  %-20s Size: %6d  Lines: %4d  %s\n", p.Name(), p.Size(), p.LineCount(), p.Comment())
			if p.IML() {
				r.printf("    - Has IML (In-Mold Labeling)\n")
			}
			if code := p.ProductCode(); code != "" {
				r.printf("    - Product: %s\n", code)
			}
		}
		r.printf("\n")
	}
}

func (r *report) callGraph() {
	r.banner("CALL GRAPH ANALYSIS")

	cg := r.a.CallGraph()
	for _, t := range cg.Trees {
		t.Walk(func(n *tp.CallTree, depth int) bool {
			if depth == 0 {
				r.printf("%s\n", n.Name)
				return true
			}
			r.printf("%s├── %s%s\n", strings.Repeat("  ", depth), n.Name, treeMarker(n))
			return true
		})
		r.printf("\n")
	}
	if len(cg.External) > 0 {
		r.printf("Missing Programs: %s\n\n", strings.Join(cg.External, ", "))
	}
}

func treeMarker(n *tp.CallTree) string {
	switch {
	case n.External:
		return " (missing)"
	case n.BackEdge:
		return " (recursive)"
	}
	return ""
}

func (r *report) registerMap() {
	r.banner("REGISTER MAP (R[X])")

	r.printf("%-6s %-40s %s\n", "Reg", "Name", "Usage Count")
	r.printf("%s\n", strings.Repeat("-", 60))
	for _, s := range r.a.Symbols().Registers.Symbols() {
		r.printf("R[%-3d] %-40s %d\n", s.Key.Index, symbolName(s), s.Usage)
	}
	r.printf("\n")
}

func (r *report) ioMap() {
	r.banner("IO MAPPING")

	signals := r.a.Symbols().Signals
	for _, sig := range tp.SignalTypes() {
		syms := signals.Signal(sig)
		if len(syms) == 0 {
			continue
		}
		direction := "Output"
		if sig.IsInput() {
			direction = "Input"
		}
		r.printf("%s (%s):\n", sig, direction)
		r.printf("%s\n", strings.Repeat("-", 60))
		r.printf("%-6s %-50s\n", "Num", "Name")
		for _, s := range syms {
			r.printf("%s[%-3d] %s\n", sig, s.Key.Index, symbolName(s))
		}
		r.printf("\n")
	}
}

func symbolName(s *tp.Symbol) string {
	if s.HasVariants() {
		return strings.Join(s.Names, " / ")
	}
	return s.Name()
}

func (r *report) errorLabels() {
	r.banner("ERROR HANDLING ANALYSIS")

	type row struct {
		label   int
		name    string
		program string
	}
	var rows []row
	for _, p := range r.a.Programs() {
		g := r.a.Flow(p.Name())
		if g == nil {
			continue
		}
		for _, n := range g.ByClass(tp.LabelError) {
			rows = append(rows, row{n.Label, n.Name, p.Name()})
		}
	}
	if len(rows) == 0 {
		r.printf("No error labels found\n\n")
		return
	}
	slices.SortStableFunc(rows, func(a, b row) int { return a.label - b.label })

	r.printf("%-12s %-40s %s\n", "Label", "Description", "Program")
	r.printf("%s\n", strings.Repeat("-", 80))
	for _, row := range rows {
		r.printf("LBL[%-4d] %-40s %s\n", row.label, row.name, row.program)
	}
	r.printf("\n")
}

func (r *report) failures() {
	fails := r.a.Failures()
	if len(fails) == 0 {
		return
	}
	r.banner("UNREADABLE FILES")
	for _, f := range fails {
		r.printf("  %s: %v\n", f.File, f.Err)
	}
	r.printf("\n")
}

func (r *report) details() {
	r.banner("DETAILED PROGRAM ANALYSIS")

	for _, p := range r.a.Programs() {
		r.printf("Program: %s\n", p.Name())
		r.printf("%s\n", strings.Repeat("-", 40))

		if attrs := p.Attributes().Fields; len(attrs) > 0 {
			r.printf("Attributes:\n")
			for _, f := range attrs {
				r.printf("  %s: %s\n", f.Key, f.Value)
			}
		}

		st := p.Stats()
		r.printf("\nStatistics:\n")
		r.printf("  instructions: %d\n", st.Instructions)
		r.printf("  comments: %d\n", st.Comments)
		r.printf("  labels: %d\n", st.Labels)
		r.printf("  error_labels: %d\n", st.ErrorLabels)
		r.printf("  calls: %d\n", st.Calls)
		r.printf("  jumps: %d\n", st.Jumps)
		r.printf("  motions: %d\n", st.Motions)
		r.printf("  positions: %d\n", st.Positions)

		if labels := p.Labels(); len(labels) > 0 {
			r.printf("\nLabels (%d):\n", len(labels))
			for _, n := range labels[:min(len(labels), detailLabels)] {
				r.printf("  LBL[%d]: %s\n", n, p.LabelName(n))
			}
			if len(labels) > detailLabels {
				r.printf("  ... and %d more\n", len(labels)-detailLabels)
			}
		}

		if callees := r.a.CallGraph().Callees(p.Name()); len(callees) > 0 {
			r.printf("\nCalls (%d):\n", len(callees))
			for _, name := range callees {
				r.printf("  CALL %s\n", name)
			}
		}

		if pos := p.Positions(); len(pos) > 0 {
			r.printf("\nPositions (%d):\n", len(pos))
			for _, ps := range pos[:min(len(pos), detailPositions)] {
				r.printf("  P[%d]: %s\n", ps.ID, ps.Comment)
			}
			if len(pos) > detailPositions {
				r.printf("  ... and %d more\n", len(pos)-detailPositions)
			}
		}

		r.printf("\n%s\n\n", strings.Repeat("=", 80))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
