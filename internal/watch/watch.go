// Package watch regenerates reports when their input files change
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Config holds watcher settings
type Config struct {
	// Debounce is how long the input must stay quiet before a rebuild.
	// KiCad writes netlists in several chunks.
	Debounce time.Duration
}

func DefaultConfig() Config {
	return Config{Debounce: 300 * time.Millisecond}
}

// Watcher reports changes to files matching a set of doublestar patterns.
// Only the directory holding each pattern's static prefix is watched.
type Watcher struct {
	config   Config
	fs       *fsnotify.Watcher
	patterns []string
	log      *zap.Logger
}

// New creates a watcher for the given patterns; relative patterns are
// resolved against the working directory
func New(config Config, log *zap.Logger, patterns ...string) (*Watcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("nothing to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{config: config, fs: fsw, log: log}

	dirs := make(map[string]bool)
	for _, p := range patterns {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		pattern := filepath.ToSlash(abs)
		if !doublestar.ValidatePattern(pattern) {
			fsw.Close()
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
		w.patterns = append(w.patterns, pattern)

		base, _ := doublestar.SplitPattern(pattern)
		dirs[filepath.FromSlash(base)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		log.Debug("watching directory", zap.String("dir", dir))
	}

	return w, nil
}

// PatternFor returns the pattern that covers an input file. A schematic
// watches every sheet in its directory, anything else only itself.
func PatternFor(path string) string {
	if strings.HasSuffix(path, ".kicad_sch") {
		return escapeMeta(filepath.Dir(path)) + string(filepath.Separator) + "*.kicad_sch"
	}
	return escapeMeta(path)
}

// escapeMeta quotes the characters doublestar treats as pattern syntax
func escapeMeta(path string) string {
	var b strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			if filepath.Separator != '\\' || r != '\\' {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Matches reports whether a changed file is one of the watched inputs
func (w *Watcher) Matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	target := filepath.ToSlash(abs)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

// Run calls onChange after each debounced batch of changes until ctx is
// cancelled or the watcher is closed
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	debouncer := NewDebouncer(w.config.Debounce, onChange)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.Matches(event.Name) {
				continue
			}
			w.log.Debug("input changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			debouncer.Add(event.Name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
