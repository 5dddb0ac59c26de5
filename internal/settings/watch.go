package settings

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 200 * time.Millisecond

// Watch reloads the settings file whenever it changes and passes the result
// to fn. It blocks until ctx is done.
//
// The containing directory is watched rather than the file, so editors that
// replace the file on save are handled. Bursts of events are debounced.
// A file that fails to parse is logged and skipped.
func Watch(ctx context.Context, log *slog.Logger, path string, fn func(*Settings)) error {
	log = log.With("component", "settings_watcher", "path", path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			timer.Reset(debounceInterval)

		case <-timer.C:
			s, err := Load(path)
			if err != nil {
				log.Warn("Ignoring invalid settings file", "error", err)

				continue
			}

			log.Info("Settings reloaded")
			fn(s)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn("Settings watcher error", "error", err)
		}
	}
}
