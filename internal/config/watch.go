package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/manufgue/Monitor/internal/model"
)

// Watch monitors the targets file and calls onChange with each successfully
// reloaded target set. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself: editors and
// deploy scripts save atomically by renaming a temp file over the path,
// which replaces the inode a file watch would be bound to. A reload that
// fails to parse is logged and skipped, so the previous target set stays
// active.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func([]model.HostTarget)) error {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("targets: watching for changes", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			targets, err := LoadTargets(abs)
			if err != nil {
				logger.Error("targets: reload failed, keeping previous set", "path", abs, "err", err)
				continue
			}
			logger.Info("targets: reloaded", "path", abs, "count", len(targets))
			onChange(targets)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("targets: watcher error", "err", err)
		}
	}
}
