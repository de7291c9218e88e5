// Package gotp analyzes corpora of FANUC teach-pendant (.LS) programs.
//
// Load reads program files from one or more Sources, assembles each into a
// tp.Program, and builds the corpus views: symbol tables, the call graph
// with call trees, and per-program flow graphs with their error handlers
// and homing summaries.
//
//	a, err := gotp.Load(ctx,
//	    gotp.WithSource(gotp.MustDirTree("./backup")),
//	    gotp.WithLogger(slog.Default()),
//	)
//	for _, p := range a.Programs() {
//	    fmt.Println(p.Name(), p.Type())
//	}
package gotp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gotp/gotp/internal/types"
	"github.com/gotp/gotp/tp"
)

// ErrNoSources is returned when Load is called with no sources.
var ErrNoSources = errors.New("no program sources provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (statements, positions, call sites).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// LoadOption configures Load and LoadPrograms.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger      *slog.Logger
	sources     []Source
	conventions *Conventions
	diagConfig  tp.DiagnosticConfig
	concurrency int
	envPaths    bool
}

func defaultLoadConfig() loadConfig {
	return loadConfig{diagConfig: tp.DefaultConfig()}
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}

// WithSource adds program sources. Sources are consulted in order; when
// two files define the same program, the file with the smaller path wins
// and the other is reported as a duplicate.
func WithSource(src ...Source) LoadOption {
	return func(c *loadConfig) { c.sources = append(c.sources, src...) }
}

// WithFiles adds an in-memory source. Keys are file names.
func WithFiles(files map[string][]byte) LoadOption {
	return func(c *loadConfig) { c.sources = append(c.sources, Files(files)) }
}

// WithConventions sets the installation conventions used to classify
// programs and labels. If not set, DefaultConventions is used.
func WithConventions(conv *Conventions) LoadOption {
	return func(c *loadConfig) { c.conventions = conv }
}

// WithDiagnosticConfig sets the diagnostic configuration.
// This controls strictness, failure thresholds, and diagnostic filtering.
func WithDiagnosticConfig(cfg tp.DiagnosticConfig) LoadOption {
	return func(c *loadConfig) { c.diagConfig = cfg }
}

// WithStrictness sets the strictness level using a preset configuration.
// Unknown levels fall back to the normal configuration.
func WithStrictness(level tp.StrictnessLevel) LoadOption {
	return func(c *loadConfig) {
		switch level {
		case tp.StrictnessStrict:
			c.diagConfig = tp.StrictConfig()
		case tp.StrictnessPermissive:
			c.diagConfig = tp.PermissiveConfig()
		case tp.StrictnessSilent:
			c.diagConfig = tp.DiagnosticConfig{Level: tp.StrictnessSilent, FailAt: tp.SeverityFatal}
		default:
			c.diagConfig = tp.DefaultConfig()
		}
	}
}

// WithConcurrency bounds the number of files assembled in parallel.
// Zero or negative uses runtime.NumCPU.
func WithConcurrency(n int) LoadOption {
	return func(c *loadConfig) { c.concurrency = n }
}

// Load loads all program files from the configured sources and analyzes
// them as one corpus.
//
// Example:
//
//	a, err := gotp.Load(ctx,
//	    gotp.WithSource(gotp.MustDirTree("/backup/robot1")),
//	    gotp.WithStrictness(tp.StrictnessStrict),
//	)
func Load(ctx context.Context, opts ...LoadOption) (*Analysis, error) {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	sources, err := cfg.allSources()
	if err != nil {
		return nil, err
	}
	return loadAllPrograms(ctx, sources, cfg)
}

// LoadPrograms loads the named programs and every program they call,
// directly or indirectly, then analyzes them as one corpus. Names that no
// source holds are skipped; calls to them surface as dangling calls.
//
// Example:
//
//	a, err := gotp.LoadPrograms(ctx, []string{"A_1PA005"},
//	    gotp.WithSource(gotp.MustDir("./backup")),
//	)
func LoadPrograms(ctx context.Context, names []string, opts ...LoadOption) (*Analysis, error) {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	sources, err := cfg.allSources()
	if err != nil {
		return nil, err
	}
	return loadProgramsByName(ctx, sources, names, cfg)
}

func (c *loadConfig) allSources() ([]Source, error) {
	sources := c.sources
	if c.envPaths {
		sources = append(sources, discoverEnvSources(types.Logger{L: c.logger})...)
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	return sources, nil
}
