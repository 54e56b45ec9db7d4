// Package watcher auto-ingests files dropped into watched directories.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay coalesces the burst of write events an editor or copy
// produces for a single file.
const debounceDelay = 500 * time.Millisecond

// Watcher monitors directories for supported files and calls back on change.
type Watcher struct {
	dirs       []string
	extensions map[string]struct{}
	recursive  bool
	onIngest   func(ctx context.Context, path string)
	onRemove   func(ctx context.Context, path string)
	log        *zap.Logger

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over dirs. Only files with one of the given
// extensions trigger callbacks.
func New(dirs, extensions []string, recursive bool, onIngest, onRemove func(ctx context.Context, path string), log *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Watcher{
		dirs:       dirs,
		extensions: exts,
		recursive:  recursive,
		onIngest:   onIngest,
		onRemove:   onRemove,
		log:        log,
		fs:         fs,
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Run registers the directories and processes events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	for _, dir := range w.dirs {
		if err := w.addDir(dir); err != nil {
			w.log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) addDir(dir string) error {
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.log.Info("watching directory", zap.String("dir", dir))
	if !w.recursive {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == dir {
			return err
		}
		if err := w.fs.Add(path); err != nil {
			w.log.Warn("cannot watch subdirectory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	// New subdirectories get picked up in recursive mode.
	if w.recursive && event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fs.Add(event.Name); err != nil {
				w.log.Warn("cannot watch new subdirectory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !w.supported(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.cancelPending(event.Name)
		w.log.Info("watched file removed", zap.String("path", event.Name))
		w.onRemove(ctx, event.Name)
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		w.debounce(ctx, event.Name)
	}
}

// debounce schedules ingestion after the write burst settles.
func (w *Watcher) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.log.Info("watched file changed", zap.String("path", path))
		w.onIngest(ctx, path)
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) supported(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
