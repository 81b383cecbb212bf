package templating

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/watcher"
)

var log = logger.ForComponent("templates")

// Library loads template JSON files from a directory into a Store and keeps
// them in sync while the directory changes. Edited files replace their
// template under the same id; deleted files drop it.
type Library struct {
	store *Store
	dir   string
	w     *watcher.Watcher
}

func NewLibrary(store *Store, dir string) *Library {
	return &Library{store: store, dir: dir}
}

// LoadAll scans the directory once and registers every readable template.
// Unparseable files are logged and skipped.
func (l *Library) LoadAll() int {
	loaded := 0
	filepath.WalkDir(l.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isTemplateFile(path) {
			return nil
		}
		if err := l.loadFile(path); err != nil {
			log.Warn("skipping template file", "path", path, "error", err)
			return nil
		}
		loaded++
		return nil
	})
	return loaded
}

// Watch starts hot reload for the library directory.
func (l *Library) Watch(ctx context.Context, cfg watcher.WatcherConfig) error {
	w, err := watcher.New(cfg, l.onBatch)
	if err != nil {
		return err
	}
	if err := w.AddRoot(l.dir); err != nil {
		w.Stop()
		return err
	}
	w.Start(ctx)
	l.w = w
	log.Info("watching template library", "dir", l.dir)
	return nil
}

func (l *Library) onBatch(events []watcher.FileEvent) {
	for _, event := range events {
		if !isTemplateFile(event.Path) {
			continue
		}
		switch event.Type {
		case watcher.EventDelete, watcher.EventRename:
			if l.store.Remove(event.Path) {
				log.Info("template removed", "path", event.Path)
			}
		default:
			if err := l.loadFile(event.Path); err != nil {
				log.Warn("template reload failed", "path", event.Path, "error", err)
				continue
			}
			log.Info("template reloaded", "path", event.Path)
		}
	}
}

func (l *Library) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return tools.NewIOError(err, "read template file %s", path)
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return tools.NewBadArgument("template file %s is not valid JSON: %v", path, err)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	_, err = l.store.Upsert(&t, path)
	return err
}

// Close stops the reload watcher if one is running.
func (l *Library) Close() error {
	if l.w == nil {
		return nil
	}
	return l.w.Stop()
}

func isTemplateFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
