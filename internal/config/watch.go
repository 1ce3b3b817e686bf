package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deusflow/cryptonews/internal/logger"
)

const reloadDebounce = 500 * time.Millisecond

// WatchRules reloads the rules file whenever it changes and hands valid
// results to onChange. Invalid edits are logged and the previous rules stay
// in effect. It blocks until ctx is done.
func WatchRules(ctx context.Context, path string, onChange func(*Rules)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file with a rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	var debounce *time.Timer
	reload := func() {
		rules, err := LoadRules(path)
		if err != nil {
			logger.Warn("Rules reload failed, keeping previous rules", "path", path, "error", err)
			return
		}
		logger.Info("Rules reloaded", "path", path, "categories", len(rules.Categories))
		onChange(rules)
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Rules watcher error", "error", err)
		}
	}
}
