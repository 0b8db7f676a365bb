// Package watcher handles file system watching for the settings file.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cmdtray/cmdtray/internal/logging"
)

// Watcher observes the settings file and emits one trigger per burst of
// modifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	triggers  chan struct{}
	done      chan struct{}
	debouncer *Debouncer
	stopOnce  sync.Once
}

// New creates a watcher for the file at path using the given quiet period.
func New(path string, quiet time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		path:      filepath.Clean(path),
		triggers:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(quiet, w.fire)

	return w, nil
}

// Triggers returns the channel that receives one value per debounced change.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Start begins watching. The parent directory is watched rather than the
// file so that editors which replace the file on save keep being observed.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Printf("[watcher] Watching %s", w.path)

	go w.processEvents()

	return nil
}

// Stop stops the watcher and cancels any pending trigger.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.debouncer.Stop()
		_ = w.fsWatcher.Close()
	})
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

// handleEvent forwards modifications of the settings file to the debouncer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	// Rename covers atomic saves (write tmp, rename over target).
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	logging.Debugf("[watcher] fsnotify: %s %s", event.Op, event.Name)
	w.debouncer.Trigger()
}

// fire delivers a trigger unless one is already queued.
func (w *Watcher) fire() {
	logging.Debugf("[watcher] debounce fired: %s", w.path)
	select {
	case w.triggers <- struct{}{}:
	default:
	}
}
