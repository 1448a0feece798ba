package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a config file and re-applies the determinism flags
// whenever it changes, so a running host can flip mode without a
// restart. Watching covers the parent directory because most editors
// replace files by rename, which drops a watch placed on the file
// itself.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	path        string
	log         *zap.Logger
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	// OnReload, if set, is called with each successfully applied
	// config. Used by hosts that need to rebuild their alert notifier
	// when the warn policy changes.
	OnReload func(*Config)
}

// NewWatcher creates a watcher for the given config file path.
// A nil logger falls back to zap.NewNop.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		watcher:     fsw,
		path:        path,
		log:         log,
		debounceDur: 250 * time.Millisecond, // batch rapid editor saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a
// goroutine until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching config file", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("error closing config watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		pending bool
		timer   = time.NewTimer(w.debounceDur)
	)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
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
			pending = true
			timer.Reset(w.debounceDur)
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Error("config reload failed, keeping previous mode state",
			zap.String("path", w.path), zap.Error(err))
		return
	}

	cfg.Apply()
	w.log.Info("config reloaded",
		zap.Bool("deterministic_required", cfg.Determinism.Required),
		zap.Bool("warn_only", cfg.Determinism.WarnOnly))

	if w.OnReload != nil {
		w.OnReload(cfg)
	}
}
