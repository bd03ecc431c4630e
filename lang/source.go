package lang

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Stdin is the resource name that refers to standard input.
const Stdin = "-"

// PathEnv names the environment variable holding extra search directories.
const PathEnv = "EXPAND_PATH"

// Opener locates a named resource and returns its lines, each keeping its
// trailing newline.
type Opener interface {
	Open(ctx context.Context, name string) ([]string, error)
}

// OpenerFunc adapts a function to the [Opener] interface.
type OpenerFunc func(ctx context.Context, name string) ([]string, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, name string) ([]string, error) {
	return f(ctx, name)
}

// MapOpener serves documents held in memory, keyed by name.
type MapOpener map[string]string

// Open returns the lines of the named document.
func (m MapOpener) Open(_ context.Context, name string) ([]string, error) {
	text, ok := m[name]
	if !ok {
		return nil, ErrSourceNotFound.With(slog.String("name", name))
	}

	return SplitLines(text), nil
}

// SplitLines splits text after each newline. The final line has no newline
// if text does not end with one; an empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// SearchPath returns the directories searched for relative resource names:
// prefix, then the entries of EXPAND_PATH, then the parent directory.
func SearchPath(prefix ...string) []string {
	delim := string(os.PathListSeparator)

	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(delim),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(func(dir string) bool { return dir != "" }),
	).String()

	var dirs []string

	for dir := range strings.SplitSeq(list, delim) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}

	return append(dirs, "..")
}

// Files opens resources from the file system. Relative names are tried as
// given and then against each search directory; absolute names are tried
// only as given. Content is cached by resolved path, so repeated includes
// read each file once.
type Files struct {
	dirs  []string
	stdin io.Reader
	cache sync.Map // uint64 -> []string
}

// NewFiles returns a [Files] searching dirs.
func NewFiles(dirs ...string) *Files {
	return &Files{dirs: dirs, stdin: os.Stdin}
}

// WithStdin replaces the reader used for the name "-".
func (f *Files) WithStdin(r io.Reader) *Files {
	f.stdin = r

	return f
}

// Dirs returns the search directories.
func (f *Files) Dirs() []string { return slices.Clone(f.dirs) }

// Purge drops all cached content.
func (f *Files) Purge() { f.cache.Clear() }

// Open returns the lines of the first candidate for name that is a readable
// regular file.
func (f *Files) Open(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}

	if name == "" {
		return nil, ErrSourceNotFound.With(slog.String("name", name))
	}

	if name == Stdin {
		return f.load(Stdin, func() (io.ReadCloser, error) {
			return io.NopCloser(f.stdin), nil
		})
	}

	for _, path := range f.candidates(name) {
		lines, err := f.load(path, func() (io.ReadCloser, error) {
			return openRegular(path)
		})
		if err == nil {
			return lines, nil
		}

		// A candidate that cannot be opened is skipped; one that opens but
		// cannot be read is an error.
		if errors.Is(err, ErrReadInput) {
			return nil, err
		}
	}

	return nil, ErrSourceNotFound.With(
		slog.String("name", name),
		slog.Any("dirs", f.dirs),
	)
}

func (f *Files) candidates(name string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}

	paths := make([]string, 0, len(f.dirs)+1)
	paths = append(paths, name)

	for _, dir := range f.dirs {
		paths = append(paths, filepath.Join(dir, name))
	}

	return paths
}

// load returns the cached lines of path, reading them through open on first
// use.
func (f *Files) load(
	path string,
	open func() (io.ReadCloser, error),
) ([]string, error) {
	key := xxh3.HashString(path)

	if v, ok := f.cache.Load(key); ok {
		if lines, ok := v.([]string); ok {
			return slices.Clone(lines), nil
		}
	}

	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ra := readahead.NewReader(rc)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	lines := SplitLines(string(data))
	f.cache.Store(key, lines)

	return slices.Clone(lines), nil
}

// openRegular opens path, reporting directories and other non-regular files
// as not existing.
func openRegular(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		_ = file.Close()

		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	return file, nil
}
