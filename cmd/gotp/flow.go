package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/cmd/internal/cliutil"
	"github.com/gotp/gotp/tp"
)

func flowCommand() *cli.Command {
	return &cli.Command{
		Name:      "flow",
		Usage:     "Show the label flow graph and state machine of a program",
		ArgsUsage: "PROGRAM",
		Description: `Examples:
  gotp -p backup flow A_1PA005
  gotp -p backup flow --format dot A_1PA005 | dot -Tpng > flow.png`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format: text, dot"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to `FILE` instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fail("expected one program name")
			}
			format := c.String("format")
			if format != "text" && format != "dot" {
				return fail("unknown format: %s", format)
			}

			a, err := loadAnalysis(c)
			if err != nil {
				return fail("load failed: %v", err)
			}
			name := strings.ToUpper(c.Args().First())
			g := a.Flow(name)
			if g == nil {
				return fail("program not found: %s", c.Args().First())
			}

			out, closeOut, err := cliutil.GetOutput(c.String("output"), c.App.Writer)
			if err != nil {
				return fail("%v", err)
			}
			defer closeOut()

			if format == "dot" {
				_, err = fmt.Fprint(out, gotp.FlowDOT(g))
			} else {
				err = writeFlow(out, a, g, conventions(c).StateNames)
			}
			if err != nil {
				return fail("%v", err)
			}
			return nil
		},
	}
}

var classColors = map[tp.LabelClass]*color.Color{
	tp.LabelEntry:  color.New(color.Bold),
	tp.LabelCycle:  color.New(color.FgGreen),
	tp.LabelError:  color.New(color.FgRed),
	tp.LabelHoming: color.New(color.FgBlue),
}

func classLabel(c tp.LabelClass) string {
	if col, ok := classColors[c]; ok {
		return col.Sprint(c.String())
	}
	return c.String()
}

// writeFlow prints the state machine view of a flow graph followed by the
// error handler and homing summaries.
func writeFlow(w io.Writer, a *gotp.Analysis, g *gotp.FlowGraph, names map[int]string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Program: %s\n", g.Program)
	fmt.Fprintf(&b, "%d labels, %d edges\n\n", len(g.Nodes), len(g.Edges))

	if entry, ok := g.Node(0); ok {
		fmt.Fprintf(&b, "ENTRY (lines %d-%d)\n", entry.FirstLine, entry.LastLine)
		for _, e := range g.Out(0) {
			writeEdge(&b, e.Kind, e.To, e.Condition, e.Callee, e.Unreachable)
		}
		b.WriteString("\n")
	}

	for st, trans := range gotp.States(g, names) {
		fmt.Fprintf(&b, "LBL[%d] %s [%s] (lines %d-%d)\n",
			st.Label, st.Name, classLabel(st.Class), st.FirstLine, st.LastLine)
		for _, act := range st.Actions {
			fmt.Fprintf(&b, "    | %s\n", act)
		}
		for _, t := range trans {
			writeEdge(&b, t.Kind, t.Target, t.Condition, t.Callee, false)
		}
		b.WriteString("\n")
	}

	if hs := a.ErrorHandlers(g.Program); len(hs) > 0 {
		b.WriteString("Error handlers:\n")
		for _, h := range hs {
			kinds := make([]string, 0, len(h.Actions))
			for _, act := range h.Actions {
				kinds = append(kinds, string(act.Kind))
			}
			fmt.Fprintf(&b, "  LBL[%d] %s: %s\n", h.Label, h.Name, strings.Join(kinds, ", "))
		}
		b.WriteString("\n")
	}

	if h, ok := a.Homing(g.Program); ok {
		labels := make([]string, len(h.Labels))
		for i, l := range h.Labels {
			labels[i] = fmt.Sprintf("LBL[%d]", l)
		}
		fmt.Fprintf(&b, "Homing: %s\n", strings.Join(labels, " "))
		for _, check := range h.Checks {
			fmt.Fprintf(&b, "  check: %s\n", check)
		}
		if len(h.Zones) > 0 {
			fmt.Fprintf(&b, "  zones: %s\n", strings.Join(h.Zones, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeEdge(b *strings.Builder, kind tp.EdgeKind, to int, cond, callee string, unreachable bool) {
	target := fmt.Sprintf("LBL[%d]", to)
	if to == 0 {
		target = "ENTRY"
	}
	fmt.Fprintf(b, "  -> %-9s %s", target, kind)
	if callee != "" {
		fmt.Fprintf(b, " after CALL %s", callee)
	}
	if cond != "" {
		fmt.Fprintf(b, " if %s", cond)
	}
	if unreachable {
		b.WriteString(" (unreachable)")
	}
	b.WriteString("\n")
}
