package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/tp"
)

const lintDescription = `Severity levels:
  0 = fatal       File could not be analyzed
  1 = severe      Structure changed to continue
  2 = error       Should correct
  3 = minor       Raw text kept
  4 = style       Style recommendation
  5 = warning     Might be correct
  6 = info        Informational

Examples:
  gotp -p backup lint
  gotp -p backup lint --level 0               # Report everything
  gotp -p backup lint --level 5 --fail-on 5   # Fail on warnings or worse
  gotp -p backup lint --ignore "unparsed-*"   # Skip unparsed text
  gotp -p backup lint --format json           # JSON output
  gotp -p backup lint --group-by code         # Group by diagnostic code`

type lintConfig struct {
	level   int
	failOn  int
	ignore  []string
	only    []string
	format  string
	groupBy string
	summary bool
	quiet   bool
}

type lintResult struct {
	Diagnostics []lintDiagnostic `json:"diagnostics,omitempty"`
	Summary     lintSummary      `json:"summary"`
	Failed      bool             `json:"-"`
}

type lintDiagnostic struct {
	Severity    string `json:"severity"`
	SeverityNum int    `json:"severity_num"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Program     string `json:"program,omitempty"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line,omitempty"`
}

type lintSummary struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	ByCode     map[string]int `json:"by_code,omitempty"`
	Programs   int            `json:"programs"`
	Failures   int            `json:"failures"`
}

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:        "lint",
		Usage:       "Check programs for issues",
		Description: lintDescription,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "level", Value: int(tp.StrictnessNormal), Usage: "Report diagnostics at severity `N` or below (0 reports all, 6 none)"},
			&cli.IntFlag{Name: "fail-on", Value: int(tp.SeverityError), Usage: "Exit non-zero if any diagnostic at severity `N` or below"},
			&cli.StringSliceFlag{Name: "ignore", Usage: "Ignore diagnostic codes (repeatable, supports globs)"},
			&cli.StringSliceFlag{Name: "only", Usage: "Only report these codes (repeatable)"},
			&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text, json, compact"},
			&cli.StringFlag{Name: "group-by", Usage: "Group output: program, code, severity"},
			&cli.BoolFlag{Name: "summary", Usage: "Show summary only"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "No output, exit code only"},
		},
		Action: func(c *cli.Context) error {
			cfg := lintConfig{
				level:   c.Int("level"),
				failOn:  c.Int("fail-on"),
				ignore:  c.StringSlice("ignore"),
				only:    c.StringSlice("only"),
				format:  c.String("format"),
				groupBy: c.String("group-by"),
				summary: c.Bool("summary"),
				quiet:   c.Bool("quiet"),
			}
			switch cfg.format {
			case "text", "json", "compact":
			default:
				return fail("unknown format: %s", cfg.format)
			}
			switch cfg.groupBy {
			case "", "program", "code", "severity":
			default:
				return fail("unknown group-by: %s", cfg.groupBy)
			}

			result, err := runLint(c, cfg)
			if err != nil {
				return fail("load failed: %v", err)
			}

			if !cfg.quiet {
				w := c.App.Writer
				switch cfg.format {
				case "json":
					err = printLintJSON(w, result)
				case "compact":
					printLintCompact(w, result)
				default:
					printLintText(w, result, cfg)
				}
				if err != nil {
					return fail("output encoding failed: %v", err)
				}
			}
			if result.Failed {
				return cli.Exit("", exitError)
			}
			return nil
		},
	}
}

func runLint(c *cli.Context, cfg lintConfig) (*lintResult, error) {
	diagCfg := tp.DiagnosticConfig{
		Level:  tp.StrictnessLevel(cfg.level),
		FailAt: tp.Severity(cfg.failOn),
		Ignore: cfg.ignore,
	}
	a, err := loadAnalysis(c, gotp.WithDiagnosticConfig(diagCfg))
	if err != nil {
		return nil, err
	}
	return collectLint(a, diagCfg, cfg.only), nil
}

func collectLint(a *gotp.Analysis, diagCfg tp.DiagnosticConfig, only []string) *lintResult {
	result := &lintResult{
		Summary: lintSummary{
			BySeverity: make(map[string]int),
			ByCode:     make(map[string]int),
			Programs:   a.ProgramCount(),
			Failures:   len(a.Failures()),
		},
	}

	for _, d := range a.Diagnostics() {
		if len(only) > 0 && !matchesAny(d.Code, only) {
			continue
		}
		result.Diagnostics = append(result.Diagnostics, lintDiagnostic{
			Severity:    d.Severity.String(),
			SeverityNum: int(d.Severity),
			Code:        d.Code,
			Message:     d.Message,
			Program:     d.Program,
			File:        d.File,
			Line:        d.Line,
		})
		result.Summary.Total++
		result.Summary.BySeverity[d.Severity.String()]++
		result.Summary.ByCode[d.Code]++

		if diagCfg.ShouldFail(d.Severity) {
			result.Failed = true
		}
	}
	return result
}

func matchesAny(code string, patterns []string) bool {
	for _, p := range patterns {
		if tp.MatchGlob(p, code) {
			return true
		}
	}
	return false
}

func printLintJSON(w io.Writer, result *lintResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printLintCompact(w io.Writer, result *lintResult) {
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "%s:%d:%s:%s:%s\n", d.Program, d.Line, d.Severity, d.Code, d.Message)
	}
}

func printLintText(w io.Writer, result *lintResult, cfg lintConfig) {
	if cfg.summary {
		printLintSummary(w, result)
		return
	}

	switch cfg.groupBy {
	case "program":
		printLintGrouped(w, result, func(d lintDiagnostic) string {
			return cmp.Or(d.Program, "(corpus)")
		})
	case "code":
		printLintGrouped(w, result, func(d lintDiagnostic) string { return d.Code })
	case "severity":
		printLintBySeverity(w, result)
	default:
		for _, d := range result.Diagnostics {
			printLintDiagLine(w, d)
		}
	}

	if result.Summary.Total > 0 {
		fmt.Fprintln(w)
		printLintSummary(w, result)
	} else {
		fmt.Fprintf(w, "No issues found in %d programs\n", result.Summary.Programs)
	}
}

func printLintGrouped(w io.Writer, result *lintResult, key func(lintDiagnostic) string) {
	groups := make(map[string][]lintDiagnostic)
	for _, d := range result.Diagnostics {
		k := key(d)
		groups[k] = append(groups[k], d)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "\n%s (%d):\n", k, len(groups[k]))
		for _, d := range groups[k] {
			fmt.Fprint(w, "  ")
			printLintDiagLine(w, d)
		}
	}
}

func printLintBySeverity(w io.Writer, result *lintResult) {
	bySev := make(map[int][]lintDiagnostic)
	for _, d := range result.Diagnostics {
		bySev[d.SeverityNum] = append(bySev[d.SeverityNum], d)
	}
	sevs := make([]int, 0, len(bySev))
	for s := range bySev {
		sevs = append(sevs, s)
	}
	slices.Sort(sevs)

	for _, sev := range sevs {
		diags := bySev[sev]
		fmt.Fprintf(w, "\n%s (%d):\n", severityColor(tp.Severity(sev)).Sprint(diags[0].Severity), len(diags))
		for _, d := range diags {
			fmt.Fprintf(w, "  [%s] %s%s\n", d.Code, location(d), d.Message)
		}
	}
}

func printLintDiagLine(w io.Writer, d lintDiagnostic) {
	sev := severityColor(tp.Severity(d.SeverityNum)).Sprint(d.Severity + ":")
	fmt.Fprintf(w, "%s [%s] %s%s\n", sev, d.Code, location(d), d.Message)
}

func location(d lintDiagnostic) string {
	loc := cmp.Or(d.Program, d.File)
	switch {
	case loc == "":
		return ""
	case d.Line > 0:
		return fmt.Sprintf("%s:%d: ", loc, d.Line)
	default:
		return loc + ": "
	}
}

func printLintSummary(w io.Writer, result *lintResult) {
	fmt.Fprintf(w, "Checked %d programs, found %d issues:\n", result.Summary.Programs, result.Summary.Total)
	for sev := tp.SeverityFatal; sev <= tp.SeverityInfo; sev++ {
		if n := result.Summary.BySeverity[sev.String()]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", severityColor(sev).Sprint(sev.String()), n)
		}
	}
	if result.Summary.Failures > 0 {
		fmt.Fprintf(w, "  %d files could not be read\n", result.Summary.Failures)
	}
}

func severityColor(sev tp.Severity) *color.Color {
	switch {
	case sev <= tp.SeverityError:
		return color.New(color.FgRed, color.Bold)
	case sev <= tp.SeverityStyle:
		return color.New(color.FgYellow)
	case sev == tp.SeverityWarning:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgCyan)
	}
}

