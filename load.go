package gotp

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/gotp/gotp/internal/analyzer"
	"github.com/gotp/gotp/internal/program"
	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

func (c *loadConfig) analyzerConfig() analyzer.Config {
	return analyzer.Config{
		Conventions: c.conventions,
		Diagnostics: c.diagConfig,
		Concurrency: c.concurrency,
		Logger:      types.Component(c.logger, "analyzer"),
	}
}

// loadAllPrograms reads every file the sources list and analyzes them.
func loadAllPrograms(ctx context.Context, sources []Source, cfg loadConfig) (*Analysis, error) {
	log := types.Logger{L: cfg.logger}

	files := make(map[string][]byte)
	for _, src := range sources {
		paths, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		slices.Sort(paths)
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if _, seen := files[path]; seen {
				continue
			}
			content, err := readAll(src, path)
			if err != nil {
				log.Log(slog.LevelWarn, "read failed",
					slog.String("file", path),
					slog.String("error", err.Error()))
				continue
			}
			if !looksLikeProgramContent(content) {
				log.Log(slog.LevelDebug, "content rejected by heuristic",
					slog.String("file", path))
				continue
			}
			files[path] = content
		}
	}

	log.Log(slog.LevelInfo, "parallel loading",
		slog.Int("files", len(files)))
	return analyzer.Analyze(ctx, files, cfg.analyzerConfig())
}

// loadProgramsByName loads the named programs and follows their calls
// through the sources until no new callee turns up.
func loadProgramsByName(ctx context.Context, sources []Source, names []string, cfg loadConfig) (*Analysis, error) {
	log := types.Logger{L: cfg.logger}
	conv := cfg.conventions

	files := make(map[string][]byte)
	visited := make(map[string]struct{})
	queue := slices.Clone(names)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := queue[0]
		queue = queue[1:]
		name = strings.ToUpper(name)
		if _, ok := visited[name]; ok {
			continue
		}
		visited[name] = struct{}{}

		content, path, err := findProgramContent(sources, name)
		if err != nil {
			log.Log(slog.LevelDebug, "program not found",
				slog.String("program", name))
			continue // surfaces as a dangling call
		}
		files[path] = content

		p, err := program.Assemble(path, content, conv, nil)
		if err != nil {
			continue
		}
		for _, in := range p.Calls() {
			if c, ok := in.Payload.(*tp.Call); ok {
				queue = append(queue, c.Target)
			}
		}
	}

	return analyzer.Analyze(ctx, files, cfg.analyzerConfig())
}

func findProgramContent(sources []Source, name string) ([]byte, string, error) {
	for _, src := range sources {
		result, err := src.Find(name)
		if err != nil {
			continue
		}
		content, err := io.ReadAll(result.Reader)
		_ = result.Reader.Close()
		if err == nil {
			return content, result.Path, nil
		}
	}
	return nil, "", fs.ErrNotExist
}

func readAll(src Source, path string) ([]byte, error) {
	r, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// binaryCheckSize bounds the prefix scanned for NUL bytes.
const binaryCheckSize = 1024

// looksLikeProgramContent rejects binary files such as compiled .TP
// programs that share a directory with their listings. Empty files pass so
// they can be reported.
func looksLikeProgramContent(content []byte) bool {
	probe := content[:min(len(content), binaryCheckSize)]
	return bytes.IndexByte(probe, 0) < 0
}
