package conf

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/svc"
)

// Watcher calls a reload func when a watched config file changes.
// Editors often write a file in several steps, so events are debounced.
type Watcher struct {
	Ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	state    int
	done     chan error
	dir      string
	reloads  map[string]func() error // base file name → reload
	watcher  *fsnotify.Watcher
	Debounce time.Duration
}

// Ensure Watcher implements svc.Service interface
var _ svc.Service = (*Watcher)(nil)

func NewWatcher(parentCtx context.Context, dir string) *Watcher {
	ctx, cancel := context.WithCancel(parentCtx)
	return &Watcher{
		Ctx:      ctx,
		cancel:   cancel,
		state:    svc.StateREADY,
		done:     make(chan error, 1),
		dir:      dir,
		reloads:  make(map[string]func() error),
		Debounce: 200 * time.Millisecond,
	}
}

func (w *Watcher) Name() string {
	return "ConfWatcher"
}

// OnChange registers reload for the file name inside the watched dir. Call before Start.
func (w *Watcher) OnChange(name string, reload func() error) {
	w.reloads[name] = reload
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != svc.StateREADY {
		return fmt.Errorf("cannot start. not ready")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// watch the dir, not the files: atomic saves replace the inode
	if err = fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.watcher = fw
	w.state = svc.StateRUNNING
	go w.run()
	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != svc.StateRUNNING {
		return
	}
	w.cancel()
	w.state = svc.StateSTOPPED
}

func (w *Watcher) Done() <-chan error {
	return w.done
}

func (w *Watcher) run() {
	log := zap.L().With(zap.String("component", "conf"))
	defer func() {
		_ = w.watcher.Close()
		w.done <- nil
	}()
	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-w.Ctx.Done():
			log.Info("config watcher stopped")
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if _, watched := w.reloads[name]; !watched {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending[name] = true
			timer.Reset(w.Debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher error", zap.Error(err))
		case <-timer.C:
			for name := range pending {
				if err := w.reloads[name](); err != nil {
					log.Error("config reload failed, keeping the previous value", zap.String("file", name), zap.Error(err))
				} else {
					log.Info("config reloaded", zap.String("file", name))
				}
			}
			clear(pending)
		}
	}
}

// WatchLetterhead hot-reloads config/.letterhead.json while the services run
func (c *Core) WatchLetterhead() {
	c.ConfWatcher = NewWatcher(c.RootCtx, filepath.Join(c.AppRoot, ConfDir))
	c.ConfWatcher.OnChange(LetterheadFile, c.PrepareLetterhead)
	c.AddService(c.ConfWatcher)
}
