// Package watch reruns a function when Go sources under a directory change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/derive/internal/ctxlog"
)

// DefaultDebounce is the quiet period after the last change before the
// function runs.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches the directory tree under Root.
type Watcher struct {
	// Root is the top of the watched tree.
	Root string
	// Ignore lists base names of files whose changes are ignored, such as
	// the generated file itself.
	Ignore []string
	// Debounce is the quiet period. Zero means DefaultDebounce.
	Debounce time.Duration
}

// Run watches the tree and calls fn after each burst of changes to .go
// files until ctx is done. Errors returned by fn are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	logger := ctxlog.FromContext(ctx)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close() //nolint:errcheck

	if err := w.addTree(fw, w.Root); err != nil {
		return err
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addTree(fw, ev.Name); err != nil {
						logger.Warn("cannot watch directory", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Debug("change", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-timer.C:
			if err := fn(ctx); err != nil {
				logger.Error("regeneration failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if !strings.HasSuffix(base, ".go") {
		return false
	}
	for _, name := range w.Ignore {
		if base == name {
			return false
		}
	}
	return true
}

// addTree watches dir and its subdirectories, skipping hidden, vendor and
// testdata directories.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && Skip(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// Skip reports whether a directory is left out of the watched tree.
func Skip(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}
