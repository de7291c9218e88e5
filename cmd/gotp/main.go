// Command gotp analyzes folders of FANUC .LS programs: it writes the
// corpus report, lints diagnostics, dumps the model and renders call and
// flow graphs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error, processing failure, or lint findings
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := newApp()
	if err := app.Run(args); err != nil {
		if ec, ok := err.(cli.ExitCoder); ok {
			if msg := ec.Error(); msg != "" {
				cliutil.PrintError("%s", msg)
			}
			return ec.ExitCode()
		}
		cliutil.PrintError("%v", err)
		return exitError
	}
	return exitOK
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "gotp",
		Usage:                  "Static analyzer for FANUC teach-pendant programs",
		UseShortOptionHandling: true,
		HideVersion:            true,
		ExitErrHandler:         func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Add a program directory, scanned recursively (repeatable)",
			},
			&cli.StringFlag{
				Name:    "conventions",
				Aliases: []string{"c"},
				Usage:   "Load installation conventions from an HCL, YAML or JSON file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "Enable trace logging (implies -v)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			reportCommand(),
			lintCommand(),
			dumpCommand(),
			graphCommand(),
			flowCommand(),
			pathsCommand(),
			{
				Name:  "version",
				Usage: "Show version",
				Action: func(c *cli.Context) error {
					printVersion(c)
					return nil
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelDebug
	switch {
	case c.Bool("vv"):
		level = gotp.LevelTrace
	case c.Bool("verbose"):
	default:
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// buildSources returns a recursive source per -p path. With no -p path the
// GOTP_PATH directories are used instead.
func buildSources(c *cli.Context) ([]gotp.Source, bool, error) {
	paths := c.StringSlice("path")
	if len(paths) == 0 {
		return nil, true, nil
	}
	var sources []gotp.Source
	for _, p := range paths {
		if src, err := gotp.DirTree(p); err == nil {
			sources = append(sources, src)
		} else {
			fmt.Fprintf(os.Stderr, "warning: cannot access path %s: %v\n", p, err)
		}
	}
	if len(sources) == 0 {
		return nil, false, gotp.ErrNoSources
	}
	return sources, false, nil
}

// loadConventions returns the -c conventions, or nil for the defaults.
func loadConventions(c *cli.Context) (*gotp.Conventions, error) {
	path := c.String("conventions")
	if path == "" {
		return nil, nil
	}
	return gotp.LoadConventions(path)
}

func loadAnalysis(c *cli.Context, extraOpts ...gotp.LoadOption) (*gotp.Analysis, error) {
	var opts []gotp.LoadOption

	sources, useEnv, err := buildSources(c)
	if err != nil {
		return nil, err
	}
	if useEnv {
		opts = append(opts, gotp.WithEnvPaths())
	} else {
		opts = append(opts, gotp.WithSource(sources...))
	}

	conv, err := loadConventions(c)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		opts = append(opts, gotp.WithConventions(conv))
	}
	if logger := setupLogger(c); logger != nil {
		opts = append(opts, gotp.WithLogger(logger))
	}
	opts = append(opts, extraOpts...)
	return gotp.Load(context.Background(), opts...)
}

// conventions returns the conventions in effect for presentation.
func conventions(c *cli.Context) *gotp.Conventions {
	conv, err := loadConventions(c)
	if err != nil || conv == nil {
		return gotp.DefaultConventions()
	}
	return conv
}

func printVersion(c *cli.Context) {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Fprintf(c.App.Writer, "gotp %s\n", version)
}

func fail(format string, args ...any) error {
	return cli.Exit(color.RedString(format, args...), exitError)
}
