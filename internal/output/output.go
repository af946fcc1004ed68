// Package output resolves where a report is written
package output

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DocsDir is the directory name --todocs looks for
const DocsDir = "Docs"

// Stdout is the Name of a Destination that writes to standard output
const Stdout = "-"

// Destination is an open report sink
type Destination struct {
	io.Writer
	Name   string
	closer io.Closer
}

// Close closes the underlying file; stdout is left open
func (d *Destination) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// Open opens path for writing. An empty path or "-" means stdout.
// With toDocs the file is redirected into the nearest Docs directory at or
// above the path's directory, keeping its base name. If the file cannot be
// created the failure is logged and stdout is used instead.
func Open(path string, toDocs bool, log *zap.Logger) *Destination {
	if path == "" || path == Stdout {
		return stdout()
	}

	if toDocs {
		path = Redirect(path, log)
	}

	f, err := os.Create(path)
	if err != nil {
		log.Warn("cannot open output file for writing, writing to stdout",
			zap.String("path", path), zap.Error(err))
		return stdout()
	}

	log.Info("writing to file", zap.String("path", path))
	return &Destination{Writer: f, Name: path, closer: f}
}

// Redirect returns path moved into the nearest Docs directory, or path
// unchanged when there is none
func Redirect(path string, log *zap.Logger) string {
	start := filepath.Dir(path)
	docs, ok := FindDocs(start)
	if !ok {
		log.Warn("no Docs directory found", zap.String("above", start))
		return path
	}
	return filepath.Join(docs, filepath.Base(path))
}

// FindDocs searches dir and its ancestors for a directory named Docs.
// A relative dir yields a path relative to the working directory.
func FindDocs(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(abs, DocsDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return relativeTo(dir, candidate), true
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", false
		}
		abs = parent
	}
}

func relativeTo(dir, candidate string) string {
	if filepath.IsAbs(dir) {
		return candidate
	}
	wd, err := os.Getwd()
	if err != nil {
		return candidate
	}
	rel, err := filepath.Rel(wd, candidate)
	if err != nil {
		return candidate
	}
	return rel
}

func stdout() *Destination {
	return &Destination{Writer: os.Stdout, Name: Stdout}
}
