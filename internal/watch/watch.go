// Package watch re-runs a render whenever one of its input files changes.
//
// Editors often save by writing a temporary file and renaming it over the
// original, so the watcher subscribes to parent directories and filters
// events by path rather than watching the files themselves.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	// DefaultDebounce is how long a path must stay quiet before a run.
	DefaultDebounce = 300 * time.Millisecond
	tickInterval    = 50 * time.Millisecond
)

// dataExtensions are the files that count inside a watched directory.
var dataExtensions = map[string]bool{".yaml": true, ".yml": true, ".json": true, ".jsonc": true}

// Inputs names what to watch. Files are matched exactly; inside Dirs any
// YAML or JSON file counts.
type Inputs struct {
	Files []string
	Dirs  []string
}

// Func is called with the settled paths after a change.
type Func func(ctx context.Context, changed []string) error

// Stats tracks watcher activity.
type Stats struct {
	Events   int
	Runs     int
	Failures int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher debounces filesystem events on a set of inputs.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange Func
	logger   *zap.Logger
	debounce time.Duration

	files map[string]bool
	dirs  map[string]bool
	roots []string

	mu      sync.Mutex
	pending map[string]time.Time
	stats   Stats
}

// New subscribes to the directories holding inputs. Paths that do not exist
// are skipped with a warning; it is an error if nothing can be watched.
func New(in Inputs, onChange Func, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		onChange: onChange,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}

	roots := make(map[string]bool)
	for _, f := range in.Files {
		if strings.TrimSpace(f) == "" {
			continue
		}
		abs := absPath(f)
		w.files[abs] = true
		roots[filepath.Dir(abs)] = true
	}
	for _, d := range in.Dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		abs := absPath(d)
		w.dirs[abs] = true
		roots[abs] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, dir := range sortedKeys(roots) {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			w.logger.Warn("watch target skipped", zap.String("path", dir))
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("watch target skipped", zap.String("path", dir), zap.Error(err))
			continue
		}
		w.roots = append(w.roots, dir)
	}
	if len(w.roots) == 0 {
		_ = fsw.Close()
		return nil, fmt.Errorf("nothing to watch")
	}
	w.fs = fsw
	return w, nil
}

// Roots returns the directories being watched.
func (w *Watcher) Roots() []string {
	return append([]string(nil), w.roots...)
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks until ctx is done, calling onChange for each settled batch of
// changes. A failing onChange is logged and the watcher keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}
	if !w.Matches(event.Name) {
		return
	}
	w.logger.Debug("input changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.pending[absPath(event.Name)] = time.Now()
	w.mu.Unlock()
}

// Matches reports whether a change to path should trigger a run.
func (w *Watcher) Matches(path string) bool {
	abs := absPath(path)
	if w.files[abs] {
		return true
	}
	if !w.dirs[filepath.Dir(abs)] {
		return false
	}
	return dataExtensions[strings.ToLower(filepath.Ext(abs))]
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
		}
	}
	if len(settled) == 0 || len(settled) < len(w.pending) {
		// Wait until every pending path is quiet so one save triggers one run.
		w.mu.Unlock()
		return
	}
	w.pending = make(map[string]time.Time)
	w.stats.Runs++
	w.mu.Unlock()

	sort.Strings(settled)
	if err := w.onChange(ctx, settled); err != nil {
		w.logger.Warn("re-render failed", zap.Strings("changed", settled), zap.Error(err))
		w.mu.Lock()
		w.stats.Failures++
		w.mu.Unlock()
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(p)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
