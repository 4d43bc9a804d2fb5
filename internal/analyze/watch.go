package analyze

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kgraph-dev/kgraph/internal/graph"
	"github.com/kgraph-dev/kgraph/internal/scanner"
)

// DefaultDebounce coalesces bursts of file events before re-analysis.
const DefaultDebounce = 500 * time.Millisecond

// Watch re-runs the analysis whenever files under rootPath change, with
// event debouncing. Every pass publishes a brand-new graph; previous
// graphs stay resident until evicted. onPublish, if non-nil, is called
// after each publication. Watch blocks until the context is cancelled.
func (a *Analyzer) Watch(ctx context.Context, rootPath string, opts scanner.Options, debounce time.Duration, onPublish func(*graph.KnowledgeGraph)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, rootPath); err != nil {
		return err
	}

	run := func() {
		g, err := a.Run(ctx, rootPath, opts)
		if err != nil {
			a.log.Warn("watch re-analysis failed", zap.Error(err))
			return
		}
		// New directories may have appeared; keep watching them.
		if err := addDirs(watcher, rootPath); err != nil {
			a.log.Warn("re-watching tree failed", zap.Error(err))
		}
		if onPublish != nil {
			onPublish(g)
		}
	}
	run()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if pending {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
			timer.Reset(debounce)
			pending = true
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			pending = false
			run()
		}
	}
}

// addDirs registers every directory under root with the watcher.
// Directories that vanish mid-walk are skipped.
func addDirs(watcher *fsnotify.Watcher, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// An unreadable root is fatal; subtrees that vanish mid-walk
			// are not.
			if path == abs {
				return fmt.Errorf("watching %s: %w", abs, walkErr)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		// Adding an already-watched path is a no-op for fsnotify.
		_ = watcher.Add(path)
		return nil
	})
}
