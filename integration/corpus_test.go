// Package integration provides integration tests against the program test
// corpus.
//
// These tests load the full testdata/corpus/ folder, a small production
// cell exported from one controller, and make assertions against the
// analyzed model. Expected values were checked by hand against the
// listings.
//
// # File Organization
//
//   - corpus_test.go: Shared infrastructure and basic load test
//   - programs_test.go: Classification, attributes, positions
//   - calls_test.go: Call graph, trees, dangling and recursive calls
//   - flow_test.go: Flow graphs, states, error handlers, homing
//   - symbols_test.go: Register and signal tables
//   - broken_test.go: Failure isolation on damaged files
package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gotp/gotp"
	"github.com/gotp/gotp/tp"
)

// corpusModel holds the shared analysis for all tests.
// Loaded once via loadCorpus().
var (
	corpusModel *gotp.Analysis
	corpusOnce  sync.Once
	corpusErr   error
)

// corpusPath returns the path to the test corpus.
func corpusPath() string {
	return filepath.Join("..", "testdata", "corpus")
}

// loadCorpus loads the entire test corpus once and caches the result.
// Every diagnostic is kept so tests can assert on them.
func loadCorpus(t *testing.T) *gotp.Analysis {
	t.Helper()

	corpusOnce.Do(func() {
		path := corpusPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			corpusErr = err
			return
		}
		src, err := gotp.DirTree(path)
		if err != nil {
			corpusErr = err
			return
		}
		corpusModel, corpusErr = gotp.Load(context.Background(),
			gotp.WithSource(src),
			gotp.WithStrictness(tp.StrictnessStrict))
	})

	if corpusErr != nil {
		t.Fatalf("failed to load corpus: %v", corpusErr)
	}
	if corpusModel == nil {
		t.Fatal("corpus model is nil")
	}
	return corpusModel
}

// getProgram retrieves a program by name and fails if not found.
func getProgram(t *testing.T, a *gotp.Analysis, name string) *gotp.Program {
	t.Helper()
	p := a.Program(name)
	require.NotNil(t, p, "program %s should exist", name)
	return p
}

// diagnosticsByCode groups the analysis diagnostics by code.
func diagnosticsByCode(a *gotp.Analysis) map[string][]tp.Diagnostic {
	out := make(map[string][]tp.Diagnostic)
	for _, d := range a.Diagnostics() {
		out[d.Code] = append(out[d.Code], d)
	}
	return out
}

// TestCorpusLoads verifies the corpus loads without failures.
func TestCorpusLoads(t *testing.T) {
	a := loadCorpus(t)

	require.Equal(t, 9, a.ProgramCount())
	require.Empty(t, a.Failures())
	require.False(t, a.HasErrors(), "diagnostics: %v", a.Diagnostics())

	byCode := diagnosticsByCode(a)
	require.Len(t, byCode["dangling-call"], 1)
	require.Len(t, byCode["recursive-call"], 1)
	require.Len(t, byCode["name-variant"], 1)
	require.Len(t, a.Diagnostics(), 3)

	for _, p := range a.Programs() {
		require.Empty(t, p.Diagnostics(), "program %s", p.Name())
	}

	t.Logf("Corpus: %d programs, %d call edges, %d registers",
		a.ProgramCount(), len(a.CallGraph().Edges), a.Symbols().Registers.Len())
}
