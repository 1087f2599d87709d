package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a settings file when it changes on disk. Valid reloads are
// delivered on Updates; the newest one wins if the consumer falls behind.
type Watcher struct {
	path     string
	base     Settings
	debounce time.Duration
	watcher  *fsnotify.Watcher

	updates chan Settings
	errs    chan error
	done    chan struct{}
	wg      sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

// Watch starts watching path. Reloads are layered over base.
func Watch(path string, base Settings, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		base:     base,
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan Settings, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Updates delivers freshly loaded settings.
func (w *Watcher) Updates() <-chan Settings { return w.updates }

// Errors delivers load and watch failures. The previous settings stay in force.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
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
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	s, err := LoadOver(w.path, w.base)
	if err != nil {
		w.report(err)
		return
	}
	select {
	case <-w.done:
		return
	default:
	}
	// Replace a stale, unconsumed update.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- s:
	default:
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
