package library

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hpungsan/quip/internal/phrase"
)

const debounceDelay = 100 * time.Millisecond

// Watcher rebuilds a library whenever its file changes and hands each new
// tree to the registered callbacks. A file that fails to load never reaches
// the callbacks; the error goes to Errors() and the log instead.
type Watcher struct {
	path   string
	opts   BuildOptions
	logger *slog.Logger

	mu       sync.Mutex
	onChange []func(*phrase.Folder)
	fsw      *fsnotify.Watcher
	timer    *time.Timer

	ctx     context.Context
	cancel  context.CancelFunc
	errChan chan error
}

// NewWatcher creates a watcher for the library at path.
func NewWatcher(path string, opts BuildOptions, logger *slog.Logger) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:    path,
		opts:    opts,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		errChan: make(chan error, 1),
	}
}

// OnChange registers cb to receive every successfully rebuilt tree.
func (w *Watcher) OnChange(cb func(*phrase.Folder)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, cb)
}

// Errors returns the channel reload failures are reported on. Errors are
// dropped when nobody drains it.
func (w *Watcher) Errors() <-chan error {
	return w.errChan
}

// Start begins watching. The directory is watched rather than the file so
// editors that replace the file on save keep working.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.fsw = fsw
	go w.loop()
	return nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.Reload)
}

// Reload rebuilds the library now and notifies callbacks on success.
func (w *Watcher) Reload() {
	if w.ctx.Err() != nil {
		return
	}
	root, err := Load(w.path, w.opts)
	if err != nil {
		w.report(fmt.Errorf("reload library: %w", err))
		return
	}

	folders, phrases := Summary(root)
	w.logger.Info("library reloaded", "path", w.path, "folders", folders, "phrases", phrases)

	w.mu.Lock()
	callbacks := append([]func(*phrase.Folder){}, w.onChange...)
	w.mu.Unlock()
	for _, cb := range callbacks {
		cb(root)
	}
}

func (w *Watcher) report(err error) {
	w.logger.Warn("library watcher", "path", w.path, "error", err)
	select {
	case w.errChan <- err:
	default:
	}
}
