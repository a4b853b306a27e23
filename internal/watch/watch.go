// Package watch reruns a full build whenever a source file under the
// assets root changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/imzadi/assetpipe/internal/logger"
	"github.com/imzadi/assetpipe/internal/walk"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree for changes to source files.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	exts     []string
	debounce time.Duration
}

// New starts watching root and every directory below it. exts lists the
// source extensions that trigger a rebuild, with or without the dot.
func New(root string, exts []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{fs: fsw, root: root, debounce: debounce}
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.exts = append(w.exts, ext)
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	dirs, err := walk.Dirs(dir)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.fs.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether a path is a watched source file.
func (w *Watcher) Matches(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range w.exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Run calls rebuild once the tree has been quiet for the debounce period
// after a source change, until ctx is done. Rebuild errors are logged.
// Changes made while rebuild runs, including its own outputs, are
// discarded.
func (w *Watcher) Run(ctx context.Context, rebuild func() error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	logger.Info("watching for changes", zap.String("root", w.root), zap.Strings("extensions", w.exts))
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if e.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(e.Name); err != nil {
						logger.Warn("watching new directory failed", zap.String("dir", e.Name), zap.Error(err))
					}
					continue
				}
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 || !w.Matches(e.Name) {
				continue
			}
			logger.Debug("source changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			logger.Info("rebuilding")
			if err := rebuild(); err != nil {
				logger.Error("rebuild failed", zap.Error(err))
			} else {
				logger.Info("rebuild complete")
			}
			w.drain()
		}
	}
}

// drain discards queued events.
func (w *Watcher) drain() {
	for {
		select {
		case _, ok := <-w.fs.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Run watches root until ctx is done, rerunning rebuild after source
// changes.
func Run(ctx context.Context, root string, exts []string, debounce time.Duration, rebuild func() error) error {
	w, err := New(root, exts, debounce)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, rebuild)
}
