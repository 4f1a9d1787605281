package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/levelcheck/internal/component"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the quiet period after a file change before the
// analysis is rerun.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce is the quiet period before rerunning (0 uses DefaultDebounce).
	Debounce time.Duration
	// OnRun receives the outcome of every analysis, starting with the
	// initial one.
	OnRun func(*Run, error)
}

// Watch analyzes args, then reruns the analysis whenever a component file
// or package manifest below the watched directories changes. Analyses never
// overlap. It returns when ctx is cancelled.
func (e *Engine) Watch(ctx context.Context, args []string, opts WatchOptions) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	onRun := opts.OnRun
	if onRun == nil {
		onRun = func(*Run, error) {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, w := range watchTargets(args, e.variants) {
		if err := w.add(watcher); err != nil {
			return fmt.Errorf("failed to watch %s: %w", w.dir, err)
		}
		e.logger.Debug("watching", "dir", w.dir, "recursive", w.recursive)
	}

	trigger := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var debounceTimer *time.Timer
		defer func() {
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
		}()

		for {
			select {
			case <-gctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if !isWatchedFile(event.Name) {
					continue
				}

				e.logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				e.logger.Error("watcher error", "error", err)
			}
		}
	})

	g.Go(func() error {
		for {
			run, err := e.Analyze(gctx, args)
			if gctx.Err() != nil {
				return nil
			}
			onRun(run, err)

			select {
			case <-gctx.Done():
				return nil
			case <-trigger:
			}
		}
	})

	return g.Wait()
}

type watchTarget struct {
	dir       string
	recursive bool
}

func (w watchTarget) add(watcher *fsnotify.Watcher) error {
	if !w.recursive {
		return watcher.Add(w.dir)
	}
	return watchDirRecursive(watcher, w.dir)
}

// watchTargets returns the directories to watch for args: package
// directories recursively (to include their manifest), and the directory of
// each single component.
func watchTargets(args []string, variants []string) []watchTarget {
	seen := make(map[string]bool)
	var out []watchTarget
	for _, arg := range args {
		target := watchTarget{}
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			target = watchTarget{dir: filepath.Clean(arg), recursive: true}
		} else {
			dir, _ := component.Split(arg, variants)
			target.dir = filepath.Clean(dir)
		}
		if seen[target.dir] {
			continue
		}
		seen[target.dir] = true
		out = append(out, target)
	}
	return out
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isWatchedFile(name string) bool {
	switch filepath.Ext(name) {
	case ".h", ".cpp", ".mem":
		return true
	default:
		return false
	}
}
