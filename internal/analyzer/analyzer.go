// Package analyzer runs the corpus analysis pass.
//
// Analysis transforms the text of a set of .LS files into a tp.Analysis
// where every program is assembled and all cross-program views are built.
//
// # Analysis Phases
//
// The analyzer executes the following phases in order:
//
//  1. Assemble: Split, parse and classify each file in parallel
//  2. Register: Order programs by name and drop duplicates
//  3. Symbols: Aggregate register and signal usage across the corpus
//  4. Calls: Build the call graph and call trees
//  5. Flows: Extract per-program flow graphs, error handlers and homing
//
// Only the assemble phase runs concurrently. Every later phase is a single
// pass over the programs in name order, so results do not depend on
// scheduling.
//
// # Usage
//
//	a, err := analyzer.Analyze(ctx, files, analyzer.Config{Logger: logger})
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gotp/gotp/internal/callgraph"
	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/flow"
	"github.com/gotp/gotp/internal/symbols"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// Config controls one analysis run.
type Config struct {
	// Conventions classify programs and labels. Nil uses config.Default.
	Conventions *config.Conventions

	// Diagnostics filters the diagnostics recorded in the analysis.
	// The zero value reports everything.
	Diagnostics tp.DiagnosticConfig

	// Concurrency bounds the number of files assembled at once.
	// Zero or negative uses runtime.NumCPU.
	Concurrency int

	// Logger receives debug and trace output. Nil disables logging.
	Logger *slog.Logger
}

// Analyze assembles files, keyed by file name, and builds the corpus views.
//
// Per-file problems never fail the run; they are recorded as failures and
// diagnostics. Analyze fails only when the conventions do not compile or
// when ctx is canceled while files are being assembled.
func Analyze(ctx context.Context, files map[string][]byte, cfg Config) (*tp.Analysis, error) {
	a, err := newAnalyzerContext(cfg)
	if err != nil {
		return nil, err
	}

	a.Log(slog.LevelDebug, "starting phase", slog.String("phase", "assemble"))
	results, err := assembleAll(ctx, files, a.Conventions, cfg.Concurrency, cfg.Logger)
	if err != nil {
		return nil, err
	}
	a.Log(slog.LevelDebug, "phase complete", slog.String("phase", "assemble"),
		slog.Int("files", len(results)))

	a.Log(slog.LevelDebug, "starting phase", slog.String("phase", "register"))
	registerPrograms(a, results)
	a.Log(slog.LevelDebug, "phase complete", slog.String("phase", "register"),
		slog.Int("programs", len(a.Programs)),
		slog.Int("failures", a.failures))

	a.Log(slog.LevelDebug, "starting phase", slog.String("phase", "symbols"))
	aggregateSymbols(a)

	a.Log(slog.LevelDebug, "starting phase", slog.String("phase", "calls"))
	buildCalls(a, types.Component(cfg.Logger, "callgraph"))

	a.Log(slog.LevelDebug, "starting phase", slog.String("phase", "flows"))
	extractFlows(a)

	a.finalizeDiagnostics()

	if a.dangling > 0 {
		a.Log(slog.LevelWarn, "dangling calls",
			slog.Int("count", a.dangling))
	}

	out := a.Builder.Analysis()
	a.Log(slog.LevelInfo, "analysis complete",
		slog.Int("programs", out.ProgramCount()),
		slog.Int("failures", len(out.Failures())),
		slog.Int("diagnostics", len(out.Diagnostics())))
	return out, nil
}

// registerPrograms records failures and adds programs in name order. The
// first file defining a program name wins.
func registerPrograms(a *analyzerContext, results []assembled) {
	for _, r := range results {
		if r.err != nil {
			a.failures++
			a.Builder.AddFailure(tp.Failure{File: r.file, Err: r.err})
			a.emit(tp.Diagnostic{
				Severity: tp.SeverityFatal,
				Code:     failureCode(r.err),
				Message:  r.err.Error(),
				File:     r.file,
			})
			continue
		}
		if !a.Builder.AddProgram(r.prog) {
			a.emit(tp.Diagnostic{
				Severity: tp.SeverityError,
				Code:     types.DiagDuplicateProgram,
				Message: fmt.Sprintf("program %s already defined in %s, ignoring this copy",
					r.prog.Name(), a.Files[r.prog.Name()]),
				Program: r.prog.Name(),
				File:    r.file,
			})
			continue
		}
		a.Files[r.prog.Name()] = r.file
		a.Programs = append(a.Programs, r.prog)
		for _, d := range r.prog.Diagnostics() {
			a.emit(d)
		}
	}
}

func aggregateSymbols(a *analyzerContext) {
	tables := symbols.Aggregate(a.Programs)
	a.Builder.SetSymbols(tables)

	variants := tables.Variants()
	for _, s := range variants {
		a.emit(tp.Diagnostic{
			Severity: tp.SeverityInfo,
			Code:     types.DiagNameVariant,
			Message:  fmt.Sprintf("%s is named inconsistently: %s", s.Key, strings.Join(s.Names, ", ")),
		})
	}
	a.Log(slog.LevelDebug, "phase complete", slog.String("phase", "symbols"),
		slog.Int("registers", tables.Registers.Len()),
		slog.Int("position_registers", tables.PositionRegisters.Len()),
		slog.Int("signals", tables.Signals.Len()),
		slog.Int("variants", len(variants)))
}

func buildCalls(a *analyzerContext, logger *slog.Logger) {
	cg := callgraph.Build(a.Programs, logger)
	a.Builder.SetCallGraph(cg)
	for _, d := range cg.Diagnostics {
		if d.Code == types.DiagDanglingCall {
			a.dangling++
		}
		a.emit(d)
	}
	a.Log(slog.LevelDebug, "phase complete", slog.String("phase", "calls"),
		slog.Int("nodes", len(cg.Nodes)),
		slog.Int("edges", len(cg.Edges)))
}

func extractFlows(a *analyzerContext) {
	labels := a.Conventions.Labels()
	edges := 0
	for _, p := range a.Programs {
		g := flow.Extract(p, labels)
		handlers := flow.ErrorHandlers(p, g, a.Conventions)
		var homing *tp.HomingSummary
		if h, ok := flow.Homing(p, g, a.Conventions); ok {
			homing = &h
		}
		a.Builder.AddFlow(g, handlers, homing)
		for _, d := range g.Diagnostics {
			a.emit(d)
		}
		edges += len(g.Edges)

		if a.TraceEnabled() {
			a.Trace("flow",
				slog.String("program", p.Name()),
				slog.Int("nodes", len(g.Nodes)),
				slog.Int("edges", len(g.Edges)),
				slog.Int("error_handlers", len(handlers)))
		}
	}
	a.Log(slog.LevelDebug, "phase complete", slog.String("phase", "flows"),
		slog.Int("programs", len(a.Programs)),
		slog.Int("edges", edges))
}
