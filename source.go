package gotp

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gotp/gotp/internal/program"
)

// DefaultExtensions are the file extensions recognized as program
// listings. Matching is case-insensitive.
var DefaultExtensions = []string{".ls"}

// FindResult holds the result of a successful Find.
type FindResult struct {
	Reader io.ReadCloser
	Path   string // source path for diagnostics
}

// Source finds program files.
type Source interface {
	// Find locates a program by name, case-insensitively.
	// Returns fs.ErrNotExist if not found.
	Find(name string) (FindResult, error)

	// ListFiles returns all program file paths known to this source.
	// Used for parallel loading.
	ListFiles() ([]string, error)

	// Open opens a path returned by ListFiles.
	Open(path string) (io.ReadCloser, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		extensions: DefaultExtensions,
	}
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- Dir Source (single directory, lazy) ---

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir creates a Source that searches a single directory (no recursion).
// Files are looked up lazily on each Find() call.
func Dir(path string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &dirSource{path: path, config: cfg}, nil
}

// MustDir is like Dir but panics on error.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *dirSource) Find(name string) (FindResult, error) {
	files, err := s.ListFiles()
	if err != nil {
		return FindResult{}, err
	}
	want := strings.ToUpper(name)
	for _, path := range files {
		if program.Stem(path) == want {
			f, err := os.Open(path)
			if err != nil {
				return FindResult{}, err
			}
			return FindResult{Reader: f, Path: path}, nil
		}
	}
	return FindResult{}, fs.ErrNotExist
}

func (s *dirSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.path, entry.Name())
		if hasValidExtension(path, extSet) {
			files = append(files, path)
		}
	}
	return files, nil
}

func (s *dirSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- DirTree Source (recursive directory, indexed) ---

type treeSource struct {
	index map[string]string // program name -> file path
	files []string
}

// DirTree creates a Source that recursively indexes a directory tree.
// It walks the tree once at construction and builds a name->path index.
// First match wins for duplicate names; ListFiles still returns every
// file so duplicates can be reported.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: root, Err: os.ErrInvalid}
	}

	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	extSet := makeExtensionSet(cfg.extensions)
	s := &treeSource{index: make(map[string]string)}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasValidExtension(path, extSet) {
			return nil
		}
		s.files = append(s.files, path)
		name := program.Stem(path)
		if _, exists := s.index[name]; !exists {
			s.index[name] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) Find(name string) (FindResult, error) {
	path, ok := s.index[strings.ToUpper(name)]
	if !ok {
		return FindResult{}, fs.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return FindResult{}, err
	}
	return FindResult{Reader: f, Path: path}, nil
}

func (s *treeSource) ListFiles() ([]string, error) {
	return slices.Clone(s.files), nil
}

func (s *treeSource) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// --- FS Source (for embed.FS, testing, http filesystems) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig

	once  sync.Once
	index map[string]string
	files []string
	err   error
}

// FS creates a Source backed by an fs.FS (e.g., embed.FS).
// The name prefixes reported paths as "name:path".
// It lazily indexes the filesystem on first use.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &fsSource{
		name:   name,
		fsys:   fsys,
		config: cfg,
	}
}

func (s *fsSource) load() error {
	s.once.Do(func() {
		s.err = s.buildIndex()
	})
	return s.err
}

func (s *fsSource) Find(name string) (FindResult, error) {
	if err := s.load(); err != nil {
		return FindResult{}, err
	}
	path, ok := s.index[strings.ToUpper(name)]
	if !ok {
		return FindResult{}, fs.ErrNotExist
	}
	f, err := s.fsys.Open(path)
	if err != nil {
		return FindResult{}, err
	}
	return FindResult{Reader: f, Path: s.name + ":" + path}, nil
}

func (s *fsSource) ListFiles() ([]string, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	files := make([]string, 0, len(s.files))
	for _, path := range s.files {
		files = append(files, s.name+":"+path)
	}
	return files, nil
}

func (s *fsSource) Open(path string) (io.ReadCloser, error) {
	rel, ok := strings.CutPrefix(path, s.name+":")
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return s.fsys.Open(rel)
}

func (s *fsSource) buildIndex() error {
	extSet := makeExtensionSet(s.config.extensions)
	s.index = make(map[string]string)

	return fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasValidExtension(path, extSet) {
			return nil
		}
		s.files = append(s.files, path)
		name := program.Stem(path)
		if _, exists := s.index[name]; !exists {
			s.index[name] = path
		}
		return nil
	})
}

// --- Files Source (in-memory) ---

type filesSource struct {
	files map[string][]byte
}

// Files creates a Source over in-memory file contents keyed by file name.
// Every key is listed regardless of extension.
func Files(files map[string][]byte) Source {
	return &filesSource{files: files}
}

func (s *filesSource) Find(name string) (FindResult, error) {
	want := strings.ToUpper(name)
	paths, _ := s.ListFiles()
	for _, path := range paths {
		if program.Stem(path) == want {
			return FindResult{Reader: io.NopCloser(bytes.NewReader(s.files[path])), Path: path}, nil
		}
	}
	return FindResult{}, fs.ErrNotExist
}

func (s *filesSource) ListFiles() ([]string, error) {
	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths, nil
}

func (s *filesSource) Open(path string) (io.ReadCloser, error) {
	content, ok := s.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
	owners  map[string]Source
}

// Multi combines multiple sources into one.
// Find() tries each source in order, returning the first match.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Find(name string) (FindResult, error) {
	for _, src := range s.sources {
		r, err := src.Find(name)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return FindResult{}, err
		}
	}
	return FindResult{}, fs.ErrNotExist
}

func (s *multiSource) ListFiles() ([]string, error) {
	s.owners = make(map[string]Source)
	var files []string
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		for _, path := range f {
			if _, ok := s.owners[path]; !ok {
				s.owners[path] = src
				files = append(files, path)
			}
		}
	}
	return files, nil
}

func (s *multiSource) Open(path string) (io.ReadCloser, error) {
	if src, ok := s.owners[path]; ok {
		return src.Open(path)
	}
	for _, src := range s.sources {
		if r, err := src.Open(path); err == nil {
			return r, nil
		}
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}
