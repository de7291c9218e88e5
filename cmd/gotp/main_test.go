package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/tp"
)

var corpus = filepath.Join("..", "..", "testdata", "corpus")

func init() {
	color.NoColor = true
}

// runApp runs the CLI with args and returns stdout and the exit code.
func runApp(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	code := exitOK
	if err := app.Run(append([]string{"gotp"}, args...)); err != nil {
		code = exitError
		if ec, ok := err.(interface{ ExitCode() int }); ok {
			code = ec.ExitCode()
		}
	}
	return out.String(), code
}

func loadCorpus(t *testing.T) *gotp.Analysis {
	t.Helper()
	a, err := gotp.Load(t.Context(), gotp.WithSource(gotp.MustDirTree(corpus)))
	require.NoError(t, err)
	return a
}

func TestReportLayout(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, writeReport(&buf, loadCorpus(t), now))
	out := buf.String()

	for _, want := range []string{
		"FANUC ROBOT PROGRAM ANALYSIS REPORT",
		"Generated: 2024-05-01 12:00:00",
		"Total Programs: 9",
		"EXECUTIVE SUMMARY",
		"  Main: 1\n",
		"Products Supported: 005",
		"MAIN PROGRAMS (1):",
		"CALL GRAPH ANALYSIS",
		"A_1PA005\n",
		"├── BUF_005 (missing)",
		"Missing Programs: BUF_005",
		"R[90 ] Product count / Productteller",
		"DI (Input):",
		"DO[101] Open hand",
		"LBL[500 ] grijper fout",
		"LBL[510 ] matrijs timeout",
		"Program: HOMING",
		"  CALL RUST",
	} {
		require.Contains(t, out, want)
	}

	sections := []string{
		"EXECUTIVE SUMMARY", "PROGRAM CLASSIFICATION", "CALL GRAPH ANALYSIS",
		"REGISTER MAP", "IO MAPPING", "ERROR HANDLING ANALYSIS", "DETAILED PROGRAM ANALYSIS",
	}
	last := -1
	for _, s := range sections {
		i := strings.Index(out, s)
		require.Greater(t, i, last, "section %s out of order", s)
		last = i
	}
	require.NotContains(t, out, "UNREADABLE FILES")
}

func TestCollectLint(t *testing.T) {
	a, err := gotp.Load(t.Context(),
		gotp.WithSource(gotp.MustDirTree(corpus)),
		gotp.WithStrictness(tp.StrictnessStrict))
	require.NoError(t, err)

	cfg := tp.DiagnosticConfig{Level: tp.StrictnessStrict, FailAt: tp.SeverityWarning}
	result := collectLint(a, cfg, nil)
	require.Equal(t, 3, result.Summary.Total)
	require.Equal(t, 9, result.Summary.Programs)
	require.True(t, result.Failed, "dangling call is a warning")

	result = collectLint(a, cfg, []string{"recursive-*"})
	require.Equal(t, 1, result.Summary.Total)
	require.False(t, result.Failed)
}

func TestLintCommand(t *testing.T) {
	out, code := runApp(t, "-p", corpus, "lint", "--level", "0", "--format", "json")
	require.Equal(t, exitOK, code, out)

	var result lintResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, 3, result.Summary.Total)
	require.Equal(t, 1, result.Summary.ByCode["dangling-call"])

	out, code = runApp(t, "-p", corpus, "lint", "--level", "5", "--fail-on", "5")
	require.Equal(t, exitError, code)
	require.Contains(t, out, "[dangling-call] AFLG_005:")

	_, code = runApp(t, "-p", corpus, "lint", "--format", "sarif")
	require.Equal(t, exitError, code)
}

func TestDumpYAML(t *testing.T) {
	var buf bytes.Buffer
	doc := buildDump(loadCorpus(t), []string{"A_1PA005"}, true)
	require.NoError(t, writeDump(&buf, doc, "yaml"))

	var back DumpOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back.Programs, 1)

	p := back.Programs[0]
	require.Equal(t, "main", p.Type)
	require.Len(t, p.Instructions, 31)
	require.Equal(t, "cartesian", p.Positions[1].Form)
	require.Equal(t, []string{"open-gripper", "message", "safe-position", "operator-wait"}, p.Flow.Handlers[0].Actions)
	require.Equal(t, []string{"vorm"}, p.Flow.Homing.Zones)
	require.Equal(t, []string{"BUF_005"}, back.Calls.External)
}

func TestFlowCommand(t *testing.T) {
	out, code := runApp(t, "-p", corpus, "flow", "a_1pa005")
	require.Equal(t, exitOK, code, out)
	require.Contains(t, out, "LBL[10] IDLE / WAIT_MOLD_CLOSED [cycle]")
	require.Contains(t, out, "if TIMEOUT")
	require.Contains(t, out, "LBL[510] matrijs timeout: message, abort")
	require.Contains(t, out, "zones: vorm")

	out, code = runApp(t, "-p", corpus, "flow", "--format", "dot", "A_1PA005")
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "digraph cfg {")

	_, code = runApp(t, "-p", corpus, "flow", "NOPE")
	require.Equal(t, exitError, code)
}

func TestGraphCommand(t *testing.T) {
	out, code := runApp(t, "-p", corpus, "graph")
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "digraph callgraph {")
	require.Contains(t, out, "A_1PA005")
}

func TestCommandsWriteToAppWriter(t *testing.T) {
	out, code := runApp(t, "-p", corpus, "report")
	require.Equal(t, exitOK, code, out)
	require.Contains(t, out, "EXECUTIVE SUMMARY")

	out, code = runApp(t, "-p", corpus, "dump", "A_1PA005")
	require.Equal(t, exitOK, code, out)
	require.Contains(t, out, `"A_1PA005"`)
}

func TestCommandsWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.dot")
	out, code := runApp(t, "-p", corpus, "graph", "-o", path)
	require.Equal(t, exitOK, code, out)
	require.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "digraph callgraph {")
}
