package gotp

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotp/gotp/internal/types"
)

// PathEnv names the environment variable holding program directories.
const PathEnv = "GOTP_PATH"

// WithEnvPaths enables discovery of program directories from the user's
// gotp config file and the GOTP_PATH environment variable. Discovered
// directories are appended after any explicit source and scanned
// recursively. When no explicit source is given, discovered directories
// alone are sufficient.
func WithEnvPaths() LoadOption {
	return func(c *loadConfig) { c.envPaths = true }
}

type pathOp int

const (
	pathReplace pathOp = iota
	pathAppend
	pathPrepend
)

// DiscoverEnvPaths returns the program directories named by the user's
// gotp config file and GOTP_PATH, in search order. Directories that do not
// exist are dropped.
func DiscoverEnvPaths() []string {
	return discoverEnvPaths(types.Logger{})
}

// discoverEnvSources returns recursive Sources for all discovered
// program directories.
func discoverEnvSources(logger types.Logger) []Source {
	var sources []Source
	for _, d := range discoverEnvPaths(logger) {
		if src, err := DirTree(d); err == nil {
			sources = append(sources, src)
		}
	}
	return sources
}

// discoverEnvPaths applies the config file, then GOTP_PATH, and returns
// the existing directories without duplicates.
func discoverEnvPaths(logger types.Logger) []string {
	var paths []string
	if cf := configFile(); cf != "" {
		paths = applyConfigFile(cf, paths, logger)
	}
	if v := os.Getenv(PathEnv); v != "" {
		op, dirs := parseColonSemantic(v)
		paths = applyOp(op, dirs, paths)
	}
	logger.Log(slog.LevelDebug, "discovered program paths",
		slog.Int("count", len(paths)))
	return filterExistingDirs(dedup(paths))
}

func configFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gotp", "paths")
}

// parseConfigLine parses a "programdirs" directive:
//
//	programdirs /backup/cell1:/backup/cell2
//	programdirs +/backup/extra
//	programdirs -/backup/first
func parseConfigLine(line string) (pathOp, []string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return 0, nil, false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "programdirs" {
		return 0, nil, false
	}
	value := strings.Join(fields[1:], " ")
	if rest, ok := strings.CutPrefix(value, "+"); ok {
		return pathAppend, splitPaths(rest), true
	}
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		return pathPrepend, splitPaths(rest), true
	}
	return pathReplace, splitPaths(value), true
}

// parseColonSemantic interprets leading/trailing colon semantics.
// Leading colon = append, trailing colon = prepend, neither = replace.
func parseColonSemantic(value string) (pathOp, []string) {
	if strings.HasPrefix(value, ":") {
		return pathAppend, splitPaths(strings.TrimPrefix(value, ":"))
	}
	if strings.HasSuffix(value, ":") {
		return pathPrepend, splitPaths(strings.TrimSuffix(value, ":"))
	}
	return pathReplace, splitPaths(value)
}

func applyOp(op pathOp, dirs, current []string) []string {
	switch op {
	case pathAppend:
		return append(current, dirs...)
	case pathPrepend:
		return append(dirs, current...)
	default:
		return dirs
	}
}

func applyConfigFile(path string, current []string, logger types.Logger) []string {
	f, err := os.Open(path)
	if err != nil {
		return current
	}
	defer f.Close() //nolint:errcheck // best-effort config file read

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		op, dirs, ok := parseConfigLine(scanner.Text())
		if !ok {
			continue
		}
		current = applyOp(op, dirs, current)
	}
	if err := scanner.Err(); err != nil {
		logger.Log(slog.LevelDebug, "error reading config file", slog.String("path", path), slog.Any("error", err))
	}
	return current
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, p := range strings.Split(s, string(os.PathListSeparator)) {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var result []string
	for _, p := range paths {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

func filterExistingDirs(paths []string) []string {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			result = append(result, p)
		}
	}
	return result
}
