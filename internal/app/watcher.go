package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"httpdctl/internal/events"
	"httpdctl/pkg/logging"
)

// watchConfig watches the declared-configuration file and enqueues a
// config-changed event when it settles after a change. The parent
// directory is watched rather than the file itself, so atomic
// rename-into-place updates are observed too.
func watchConfig(ctx context.Context, path string, debounce time.Duration, queue *events.Queue) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logging.Info("Watcher", "Watching %s for configuration changes", path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			// Restart the debounce window on every change.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			logging.Debug("Watcher", "Configuration file changed")
			queue.Add(events.NewConfigChanged())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Watcher", "Watch error: %v", err)
		}
	}
}
