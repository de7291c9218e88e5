package gotp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/gotp/gotp/internal/testutil"
)

const corpusDir = "testdata/corpus"

func TestDirNonExistentPath(t *testing.T) {
	_, err := Dir("/this/path/does/not/exist/at/all")
	require.Error(t, err, "Dir with non-existent path should fail")
}

func TestDirNotADirectory(t *testing.T) {
	_, err := Dir(filepath.Join(corpusDir, "TEKST.LS"))
	require.Error(t, err, "Dir with a file path should fail")
}

func TestMustDirPanicsOnError(t *testing.T) {
	require.Panics(t, func() { MustDir("/this/path/does/not/exist") })
}

func TestMustDirTreePanicsOnError(t *testing.T) {
	require.Panics(t, func() { MustDirTree("/this/path/does/not/exist") })
}

func TestDirSourceFind(t *testing.T) {
	src := MustDir(corpusDir)

	result, err := src.Find("tekst")
	require.NoError(t, err, "lookup is case-insensitive")
	require.NotNil(t, result.Reader)
	_ = result.Reader.Close()
	require.Equal(t, filepath.Join(corpusDir, "TEKST.LS"), result.Path)

	_, err = src.Find("NOPE")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDirSourceListFiles(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"MAIN.LS":    "x",
		"lower.ls":   "x",
		"MAIN.TP":    "x",
		"notes.txt":  "x",
		"sub/SUB.LS": "x",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	files, err := MustDir(dir).ListFiles()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "MAIN.LS"),
		filepath.Join(dir, "lower.ls"),
	}, files, "no recursion, extension match ignores case")

	files, err = MustDirTree(dir).ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 3)

	files, err = MustDir(dir, WithExtensions(".tp")).ListFiles()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "MAIN.TP")}, files)
}

func TestDirTreeFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, sub, "RUST.LS"), []byte(sub), 0o644))
	}

	src := MustDirTree(dir)
	result, err := src.Find("RUST")
	require.NoError(t, err)
	content, err := io.ReadAll(result.Reader)
	_ = result.Reader.Close()
	require.NoError(t, err)
	require.Equal(t, "a", string(content))

	files, err := src.ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 2, "duplicates stay listed so they can be reported")
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"cell/RUST.LS":  {Data: testutil.Program("RUST", "END").Bytes()},
		"cell/TEKST.LS": {Data: testutil.Program("TEKST", "END").Bytes()},
		"readme.md":     {Data: []byte("not a program")},
	}
	src := FS("backup", fsys)

	files, err := src.ListFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"backup:cell/RUST.LS", "backup:cell/TEKST.LS"}, files)

	result, err := src.Find("rust")
	require.NoError(t, err)
	_ = result.Reader.Close()
	require.Equal(t, "backup:cell/RUST.LS", result.Path)

	r, err := src.Open("backup:cell/TEKST.LS")
	require.NoError(t, err)
	_ = r.Close()

	_, err = src.Open("cell/TEKST.LS")
	require.True(t, errors.Is(err, fs.ErrNotExist), "paths carry the source name")

	_, err = src.Find("HOMING")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFSSourceWithLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"A_1PA005.LS": {Data: testutil.Program("A_1PA005", "CALL RUST").Bytes()},
		"RUST.LS":     {Data: testutil.Program("RUST", "END").Bytes()},
	}
	a, err := Load(context.Background(), WithSource(FS("mem", fsys)))
	require.NoError(t, err)
	require.Equal(t, 2, a.ProgramCount())
	require.Equal(t, "mem:RUST.LS", a.Program("RUST").File())
	require.Equal(t, []string{"A_1PA005"}, a.CallGraph().Callers("RUST"))
}

func TestFilesSource(t *testing.T) {
	src := Files(map[string][]byte{
		"b/TEKST.LS": []byte("b"),
		"a/RUST.LS":  []byte("a"),
	})
	files, err := src.ListFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"a/RUST.LS", "b/TEKST.LS"}, files)

	result, err := src.Find("Tekst")
	require.NoError(t, err)
	content, _ := io.ReadAll(result.Reader)
	require.Equal(t, "b", string(content))

	_, err = src.Open("c/NONE.LS")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMultiSource(t *testing.T) {
	first := Files(map[string][]byte{"RUST.LS": []byte("first")})
	second := Files(map[string][]byte{
		"RUST.LS":  []byte("second"),
		"TEKST.LS": []byte("tekst"),
	})
	src := Multi(first, second)

	result, err := src.Find("RUST")
	require.NoError(t, err)
	content, _ := io.ReadAll(result.Reader)
	require.Equal(t, "first", string(content), "earlier source wins")

	files, err := src.ListFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"RUST.LS", "TEKST.LS"}, files, "same path listed once")

	r, err := src.Open("RUST.LS")
	require.NoError(t, err)
	content, _ = io.ReadAll(r)
	require.Equal(t, "first", string(content))

	_, err = src.Find("HOMING")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLooksLikeProgramContent(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"listing", testutil.Program("RUST", "END").Bytes(), true},
		{"empty", nil, true},
		{"binary", []byte{'T', 'P', 0, 1, 2}, false},
		{"nul past probe", append(bytes.Repeat([]byte("a"), binaryCheckSize), 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, looksLikeProgramContent(tt.content))
		})
	}
}

func TestDefaultExtensions(t *testing.T) {
	set := makeExtensionSet(DefaultExtensions)
	require.True(t, hasValidExtension("A_1PA005.LS", set))
	require.True(t, hasValidExtension("a_1pa005.ls", set))
	require.False(t, hasValidExtension("A_1PA005.TP", set))
	require.False(t, hasValidExtension("LS", set))
}
