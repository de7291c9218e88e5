package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/cmd/internal/cliutil"
)

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Render the call graph in Graphviz DOT format",
		Description: `Examples:
  gotp -p backup graph | dot -Tsvg > calls.svg
  gotp -p backup graph -o calls.dot`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Value: "calls", Usage: "Graph title"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to `FILE` instead of stdout"},
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

			if _, err := fmt.Fprint(out, gotp.CallGraphDOT(a, c.String("title"))); err != nil {
				return fail("%v", err)
			}
			return nil
		},
	}
}
