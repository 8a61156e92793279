// Copyright © 2024 The ruby-lint authors

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/h2dkb/ruby-lint/analysis"
)

var (
	watchDebounce time.Duration
	watchExcludes []string
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [paths...]",
	Short: "Re-analyze files as they change",
	Long: `Re-analyze files as they change.

The given directories are watched recursively; with no arguments the working
directory is watched. When a Ruby source or dump file changes it is
re-analyzed after a short debounce, and findings are printed one per line.
Directories created while watching are picked up automatically.

The command runs until interrupted.

Examples:
  ruby-lint watch                         # Watch the working directory
  ruby-lint watch lib spec                # Watch two trees
  ruby-lint watch --debounce 2s lib       # Calm down bulk operations
  ruby-lint watch --exclude='db/schema.rb' .`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		loop, err := newWatchLoop(analysis.NewLinter(), logger, watchExcludes, watchDebounce)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ruby-lint watch: %v\n", err)
			os.Exit(2)
		}
		defer loop.Close()
		if err := loop.watch(args); err != nil {
			fmt.Fprintf(os.Stderr, "ruby-lint watch: %v\n", err)
			os.Exit(2)
		}
		logger.Info("watching for changes", "paths", args)
		loop.run(cmd.Context())
	},
}

// watchLoop drives one watch session: a recursive fsnotify watch whose
// events collect in a debounce buffer and flush as lint runs.
type watchLoop struct {
	fsw      *fsnotify.Watcher
	linter   *analysis.Linter
	logger   *slog.Logger
	exclude  []glob.Glob
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
	ctx     context.Context
}

func newWatchLoop(linter *analysis.Linter, logger *slog.Logger, excludes []string, debounce time.Duration) (*watchLoop, error) {
	var compiled []glob.Glob
	for _, pat := range excludes {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pat, err)
		}
		compiled = append(compiled, g)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watchLoop{
		fsw:      fsw,
		linter:   linter,
		logger:   logger,
		exclude:  compiled,
		debounce: debounce,
		pending:  make(map[string]bool),
	}, nil
}

// watch registers every directory under the given roots.
func (w *watchLoop) watch(roots []string) error {
	for _, root := range roots {
		if err := w.watchRecursive(root); err != nil {
			return err
		}
	}
	return nil
}

func (w *watchLoop) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && (analysis.IgnoredDir(info.Name()) || w.excluded(path)) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// run consumes watch events until the context ends or the watcher closes.
func (w *watchLoop) run(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "err", err)
		}
	}
}

func (w *watchLoop) handleEvent(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if analysis.IgnoredDir(filepath.Base(event.Name)) || w.excluded(event.Name) {
				return
			}
			if err := w.watchRecursive(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", "path", event.Name, "err", err)
				return
			}
			w.scheduleTree(event.Name)
			return
		}
	}
	if !analysis.Lintable(event.Name) || w.excluded(event.Name) {
		return
	}
	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
		w.schedule(event.Name)
	}
}

// scheduleTree queues every lintable file under a directory that appeared
// whole, as after a move into the watched tree.
func (w *watchLoop) scheduleTree(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if analysis.Lintable(path) && !w.excluded(path) {
			w.schedule(path)
		}
		return nil
	})
}

// schedule adds a path to the debounce buffer and re-arms the flush timer.
func (w *watchLoop) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush lints everything the buffer collected.  Files deleted between the
// event and the flush are dropped silently.
func (w *watchLoop) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	ctx := w.ctx
	w.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	sort.Strings(paths)

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		diags, err := w.linter.LintFile(ctx, path)
		if err != nil {
			w.logger.Warn("skipping file", "path", path, "err", err)
			continue
		}
		w.logger.Info("analyzed", "path", path, "diagnostics", len(diags))
		if len(diags) > 0 {
			_ = analysis.FormatText(os.Stdout, diags)
		}
	}
}

func (w *watchLoop) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range w.exclude {
		if g.Match(slashed) || g.Match(base) {
			return true
		}
	}
	return false
}

func (w *watchLoop) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond,
		"How long to wait after the last change before re-analyzing.")
	watchCmd.Flags().StringArrayVar(&watchExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
