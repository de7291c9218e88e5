package analyzer

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"maps"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gotp/gotp/internal/config"
	"github.com/gotp/gotp/internal/program"
	"github.com/gotp/gotp/internal/section"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// assembled is the outcome of assembling one file.
type assembled struct {
	file string
	prog *tp.Program
	err  error
}

// assembleAll assembles every file with at most limit workers. Each worker
// writes only its own slot, so no locking is needed. The result is ordered
// by program name, then file name; failures sort by file name.
func assembleAll(ctx context.Context, files map[string][]byte, conv *config.Conventions, limit int, logger *slog.Logger) ([]assembled, error) {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	names := slices.Sorted(maps.Keys(files))
	results := make([]assembled, len(names))
	progLogger := types.Component(logger, "program")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := program.Assemble(name, files[name], conv, progLogger)
			results[i] = assembled{file: name, prog: p, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b assembled) int {
		return cmp.Compare(sortKey(a), sortKey(b))
	})
	return results, nil
}

func sortKey(r assembled) string {
	if r.prog == nil {
		return "\x00" + r.file
	}
	return r.prog.Name()
}

// failureCode maps an assembly error to its diagnostic code.
func failureCode(err error) string {
	if errors.Is(err, section.ErrEmptyFile) {
		return types.DiagEmptyFile
	}
	return types.DiagMalformedProgram
}
