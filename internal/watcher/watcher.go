// Package watcher delivers debounced filesystem change batches for a set
// of watched directory roots. Consumers provide a callback; the watcher
// handles recursive registration, event coalescing, and ignore patterns.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/slidesmith/slidesmith-mcp/internal/logger"
)

var log = logger.ForComponent("watcher")

type Watcher struct {
	config      WatcherConfig
	fsWatcher   *fsnotify.Watcher
	fsWatcherMu sync.Mutex
	debouncer   *Debouncer
	onBatch     func([]FileEvent)

	mu      sync.Mutex
	roots   []string
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New builds a watcher delivering coalesced event batches to onBatch.
func New(config WatcherConfig, onBatch func([]FileEvent)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		config:    config,
		fsWatcher: fsWatcher,
		onBatch:   onBatch,
	}
	w.debouncer = NewDebouncer(config.DebounceWindow, config.MaxBatchSize, w.deliver)
	return w, nil
}

func (w *Watcher) addToWatcher(path string) error {
	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	return w.fsWatcher.Add(path)
}

func (w *Watcher) removeFromWatcher(path string) {
	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	w.fsWatcher.Remove(path)
}

// AddRoot registers a directory tree for watching.
func (w *Watcher) AddRoot(path string) error {
	log.Debug("adding watch root", "path", path)
	if err := w.addToWatcher(path); err != nil {
		return err
	}
	w.mu.Lock()
	w.roots = append(w.roots, path)
	w.mu.Unlock()
	return w.walkAndAdd(path)
}

// walkAndAdd registers every non-ignored subdirectory below path.
func (w *Watcher) walkAndAdd(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(path, entry.Name())
		if w.shouldIgnore(fullPath) {
			continue
		}
		if err := w.addToWatcher(fullPath); err != nil {
			log.Debug("failed to watch directory", "path", fullPath, "error", err)
			continue
		}
		w.walkAndAdd(fullPath)
	}
	return nil
}

// RemoveRoot stops watching a previously added root.
func (w *Watcher) RemoveRoot(path string) {
	w.removeFromWatcher(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, root := range w.roots {
		if root == path {
			w.roots = append(w.roots[:i], w.roots[i+1:]...)
			break
		}
	}
}

// Start begins event delivery. Safe to call once per watcher.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	go w.handleEvents()
}

func (w *Watcher) handleEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.shouldIgnore(event.Name) {
						if err := w.addToWatcher(event.Name); err == nil {
							w.walkAndAdd(event.Name)
						}
					}
				}
			}
			if fileEvent := w.convertEvent(event); fileEvent != nil {
				w.debouncer.Add(*fileEvent)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Debug("watch error", "error", err)
		}
	}
}

func (w *Watcher) convertEvent(event fsnotify.Event) *FileEvent {
	if w.shouldIgnore(event.Name) {
		return nil
	}
	var eventType EventType
	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventModify
	case event.Has(fsnotify.Remove):
		eventType = EventDelete
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	default:
		return nil
	}
	return &FileEvent{Path: event.Name, Type: eventType, Timestamp: time.Now()}
}

func (w *Watcher) deliver(events []FileEvent) {
	if w.onBatch != nil {
		w.onBatch(events)
	}
}

func (w *Watcher) shouldIgnore(path string) bool {
	basename := filepath.Base(path)
	if !w.config.WatchHidden && strings.HasPrefix(basename, ".") {
		return true
	}
	for _, pattern := range w.config.IgnorePatterns {
		if match, _ := doublestar.Match(pattern, path); match {
			return true
		}
	}
	return false
}

// Stop flushes pending events and closes the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.debouncer.Stop()

	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	return w.fsWatcher.Close()
}
