// Package watch regenerates documentation when source files change.
//
// A Watcher registers every directory below a base directory with fsnotify
// and invokes a callback once events stop arriving for the debounce period.
// Events inside the window are coalesced, so one callback sees every path
// that changed. A callback never runs concurrently with itself.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// defaultIgnores are excluded regardless of Config.Ignore.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.pyc",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// Config holds the parameters for a Watcher.
type Config struct {
	// BaseDir is the directory watched recursively. Empty means the working
	// directory.
	BaseDir string
	// Patterns select the files that trigger a callback, as doublestar
	// globs relative to BaseDir. Empty matches every file.
	Patterns []string
	// Ignore lists further doublestar globs that never trigger a callback.
	// Directories matching them are not watched.
	Ignore []string
	// Debounce is the quiet period before the callback fires.
	Debounce time.Duration
	// OnChange receives the changed paths relative to BaseDir, sorted.
	OnChange func(ctx context.Context, changed []string) error
	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

// Watcher monitors a directory tree and fires a debounced callback.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	debounce time.Duration
	baseDir  string
	logger   *log.Logger
	started  atomic.Bool
}

// New validates cfg and registers the directory tree with fsnotify.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		baseDir:  absBase,
		logger:   logger,
	}
	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// BaseDir returns the absolute watched directory.
func (w *Watcher) BaseDir() string { return w.baseDir }

// Run processes events until ctx is canceled. It returns nil on
// cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation because it is scheduled with
	// time.AfterFunc. A run still in progress reschedules instead of
	// overlapping, so pending paths are kept for the next attempt.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Info("source changed", "files", len(changed))
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("regeneration failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}
			if w.isIgnored(rel) {
				continue
			}
			// New directories are watched before pattern matching, which
			// usually only selects files.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.matchesPatterns(rel) {
				continue
			}
			w.logger.Debug("event", "op", evt.Op.String(), "path", rel)

			mu.Lock()
			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// addDirectories registers every directory below the base that is not
// ignored. Inaccessible directories are skipped.
func (w *Watcher) addDirectories() error {
	err := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkErr)
			return nil //nolint:nilerr // keep watching the rest of the tree
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.baseDir, path)
		if err != nil {
			return nil //nolint:nilerr // not below the base directory
		}
		if rel != "." && w.isIgnoredDir(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil || w.isIgnoredDir(rel) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("add new directory", "path", path, "err", err)
	}
}

func (w *Watcher) isIgnoredDir(rel string) bool {
	return w.isIgnored(rel) || w.isIgnored(rel+"/") || w.isIgnored(rel+"/x")
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func (w *Watcher) matchesPatterns(rel string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
