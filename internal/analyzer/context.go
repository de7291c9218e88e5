package analyzer

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// analyzerContext holds working state shared by the analysis phases.
type analyzerContext struct {
	Builder *tp.Builder

	// Programs holds the programs that survived assembly and duplicate
	// elimination, ordered by name.
	Programs []*tp.Program

	// Files maps program name to the file that defined it.
	Files map[string]string

	Conventions *config.Conventions

	// Diagnostic configuration and collection
	diagConfig  tp.DiagnosticConfig
	diagnostics []tp.Diagnostic

	// Counters for the completion summary
	failures int
	dangling int

	types.Logger
}

// newAnalyzerContext prepares the working state. The conventions are
// copied and compiled here, before any worker reads them, so a table the
// caller edits or shares stays out of the run.
func newAnalyzerContext(cfg Config) (*analyzerContext, error) {
	conv := config.Default()
	if cfg.Conventions != nil {
		conv = cfg.Conventions.Clone()
		if err := conv.Compile(); err != nil {
			return nil, fmt.Errorf("conventions: %w", err)
		}
	}
	return &analyzerContext{
		Builder:     tp.NewBuilder(),
		Files:       make(map[string]string),
		Conventions: conv,
		diagConfig:  cfg.Diagnostics,
		Logger:      types.Logger{L: cfg.Logger},
	}, nil
}

// emit records a diagnostic for the final filter pass.
func (ctx *analyzerContext) emit(d tp.Diagnostic) {
	ctx.diagnostics = append(ctx.diagnostics, d)
}

// finalizeDiagnostics filters the collected diagnostics through the
// diagnostic configuration and hands the survivors to the builder in
// program, file, line order.
func (ctx *analyzerContext) finalizeDiagnostics() {
	diags := ctx.diagConfig.Filter(ctx.diagnostics)
	slices.SortStableFunc(diags, func(a, b tp.Diagnostic) int {
		if c := cmp.Compare(a.Program, b.Program); c != 0 {
			return c
		}
		if c := cmp.Compare(a.File, b.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})
	for _, d := range diags {
		ctx.Builder.AddDiagnostic(d)
	}
	if suppressed := len(ctx.diagnostics) - len(diags); suppressed > 0 {
		ctx.Log(slog.LevelDebug, "diagnostics suppressed",
			slog.Int("count", suppressed))
	}
}
