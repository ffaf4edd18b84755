package matcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
)

// WatchingLibrary serves a pattern library from a file and reloads it when
// the file changes.  A reload that fails to parse or compile keeps the
// previous library in service.
type WatchingLibrary struct {
	loader  *Loader
	path    string
	logger  logging.Logger
	watcher *fsnotify.Watcher

	mu  sync.RWMutex
	lib *Library

	done chan struct{}
}

// NewWatchingLibrary loads path and starts watching its directory; watching
// the directory rather than the file survives editors that replace the file
// on save.
func NewWatchingLibrary(loader *Loader, path string, logger logging.Logger) (*WatchingLibrary, error) {
	if logger == nil {
		logger = logging.Default()
	}
	lib, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &WatchingLibrary{
		loader:  loader,
		path:    path,
		logger:  logger.Named("patterns.watch"),
		watcher: fw,
		lib:     lib,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Library returns the currently served library.
func (w *WatchingLibrary) Library() *Library {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lib
}

// Close stops watching.  The last loaded library stays available.
func (w *WatchingLibrary) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *WatchingLibrary) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("pattern watch error", logging.Err(err))
		}
	}
}

func (w *WatchingLibrary) reload() {
	lib, err := w.loader.Load(w.path)
	if err != nil {
		w.logger.Warn("pattern reload failed, keeping previous library",
			logging.String("path", w.path), logging.Err(err))
		return
	}
	w.mu.Lock()
	w.lib = lib
	w.mu.Unlock()
	w.logger.Info("pattern library reloaded",
		logging.String("path", w.path),
		logging.String("hash", lib.Hash()[:12]))
}
