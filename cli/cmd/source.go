package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// stdinSource names standard input in a source list.
	stdinSource = "-"
	// sourceSeparator starts each source on a new statement. The leading
	// newline ends a trailing line comment of the previous source.
	sourceSeparator = "\n;\n"
)

type sourceFilesKey struct{}

// SourceFiles is a program read from a list of source files in order.
type SourceFiles interface {
	io.Reader
	// Stdin returns os.Stdin when it is one of the sources, or nil.
	Stdin() io.Reader
}

// sourceSet holds distinct source files. Stdin is always read last.
type sourceSet struct {
	paths []string
	stdin bool
	r     io.Reader
}

func (s *sourceSet) Stdin() io.Reader {
	if s.stdin {
		return os.Stdin
	}

	return nil
}

func (s *sourceSet) Read(p []byte) (int, error) {
	if s.r == nil {
		parts := make([]io.Reader, 0, len(s.paths)+1)
		for _, path := range s.paths {
			parts = append(parts, &lazyFile{path: path})
		}

		if s.stdin {
			parts = append(parts, os.Stdin)
		}

		s.r = joinSources(parts...)
	}

	return s.r.Read(p)
}

// lazyFile opens its file on the first read and closes it at EOF.
type lazyFile struct {
	path string
	file *os.File
	done bool
}

func (l *lazyFile) Read(p []byte) (int, error) {
	if l.done {
		return 0, io.EOF
	}

	if l.file == nil {
		f, err := os.Open(l.path)
		if err != nil {
			l.done = true

			return 0, err
		}

		l.file = f
	}

	n, err := l.file.Read(p)
	if err == io.EOF {
		l.done = true
		_ = l.file.Close()
	}

	return n, err
}

// joinSources concatenates parts with [sourceSeparator] between them. It
// returns nil when parts is empty.
func joinSources(parts ...io.Reader) io.Reader {
	if len(parts) == 0 {
		return nil
	}

	joined := make([]io.Reader, 0, 2*len(parts)-1)

	for i, part := range parts {
		if i > 0 {
			joined = append(joined, strings.NewReader(sourceSeparator))
		}

		joined = append(joined, part)
	}

	return io.MultiReader(joined...)
}

// WithSourceFiles returns ctx carrying the global program sources.
//
// A file named more than once, through any path or symlink, is read once
// at its first position. Files that cannot be found are skipped. Every "-",
// or a file that is standard input itself, reads stdin once, after the
// files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func sourceFilesFrom(ctx context.Context) SourceFiles {
	src, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return src
}

// buildSourceFiles returns nil when no source remains.
func buildSourceFiles(sources []string) SourceFiles {
	var (
		set  sourceSet
		seen []os.FileInfo
	)

	stdin, _ := os.Stdin.Stat()

	for _, src := range sources {
		if src == stdinSource {
			set.stdin = true

			continue
		}

		path, info, ok := resolveSource(src)
		if !ok {
			continue
		}

		if stdin != nil && os.SameFile(info, stdin) {
			set.stdin = true

			continue
		}

		if slices.ContainsFunc(seen, func(fi os.FileInfo) bool { return os.SameFile(fi, info) }) {
			continue
		}

		seen = append(seen, info)
		set.paths = append(set.paths, path)
	}

	if len(set.paths) == 0 && !set.stdin {
		return nil
	}

	return &set
}

// resolveSource returns the absolute path of src with symlinks evaluated.
func resolveSource(src string) (string, os.FileInfo, bool) {
	path, err := filepath.Abs(src)
	if err != nil {
		return "", nil, false
	}

	if path, err = filepath.EvalSymlinks(path); err != nil {
		return "", nil, false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", nil, false
	}

	return path, info, true
}

// program returns the complete program of a command: the global sources,
// then the command's own files, then each expression. It returns nil when
// there is nothing to read.
func program(ctx context.Context, files, exprs []string) io.Reader {
	var parts []io.Reader

	if src := sourceFilesFrom(ctx); src != nil {
		parts = append(parts, src)
	}

	if src := buildSourceFiles(files); src != nil {
		parts = append(parts, src)
	}

	for _, expr := range exprs {
		parts = append(parts, strings.NewReader(expr))
	}

	return joinSources(parts...)
}

// programOrStdin returns the program of a command, falling back to piped
// stdin. A terminal on stdin means nothing was piped, which is
// [ErrNoInput].
func programOrStdin(ctx context.Context, files, exprs []string) (io.Reader, error) {
	if r := program(ctx, files, exprs); r != nil {
		return r, nil
	}

	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		return nil, ErrNoInput
	}

	return os.Stdin, nil
}
