package pubgraph

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/pubgraph/internal/logfields"
)

// WatchContent invalidates the page cache whenever a file under the content
// directory changes. It blocks until ctx is done.
func (a *App) WatchContent(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pubgraph: create watcher: %w", err)
	}
	defer w.Close()

	// fsnotify does not recurse; register every directory up front.
	err = filepath.WalkDir(a.Config.ContentDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pubgraph: watch %s: %w", a.Config.ContentDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						a.logger.Warn("watch new directory", logfields.File(ev.Name), logfields.Error(err))
					}
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			a.logger.Debug("content changed", logfields.File(ev.Name), "op", ev.Op.String())
			a.Cache.Invalidate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("content watcher error", logfields.Error(err))
		}
	}
}
