package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog at path whenever the file is written or replaced
// and hands every valid result to onChange. Invalid edits are logged and
// skipped so a half-saved file never replaces a working catalog.
//
// The parent directory is watched rather than the file itself, since most
// editors save by renaming a temporary file over the original.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Catalog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve catalog path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

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

			c, loadErr := Load(abs)
			if loadErr != nil {
				slog.Warn("Ignoring catalog change", "path", abs, "error", loadErr)
				continue
			}
			slog.Info("Catalog reloaded", "path", abs, "bundles", len(c.Bundles), "neighborhoods", len(c.Neighborhoods))
			onChange(c)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Catalog watcher error", "error", err)
		}
	}
}
