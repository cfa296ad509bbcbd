package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/exhyte/internal/catalog"
	"github.com/starford/exhyte/internal/storage"
)

// debounce is the quiet period after the last file event before a reload.
const debounce = 200 * time.Millisecond

// EventCallback is called for every paper that changed in a reload.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, id string)

// Watch starts an fsnotify watcher on the cache directory and processes
// change events until ctx is cancelled. Each burst of .json events triggers
// one cache refresh; when the snapshot changed the index is synced and cb
// (if non-nil) is called for each changed paper.
//
// A directory that does not exist is logged and Watch returns nil.
func Watch(ctx context.Context, db *DB, cache *catalog.Cache, logger *slog.Logger, cb EventCallback) error {
	dir := cache.Dir()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn("watcher: paper directory unavailable, not watching", slog.String("dir", dir))
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			Reload(db, cache, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !storage.IsPaperFile(filepath.Base(ev.Name)) {
				continue
			}
			logger.Debug("watcher: event", slog.String("file", filepath.Base(ev.Name)), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reloadMu makes refresh, sync and diff one step, so the index is never
// synced to a snapshot older than the one the cache serves.
var reloadMu sync.Mutex

// Reload refreshes the cache and, when the snapshot changed, syncs the
// index and calls cb for each changed paper. It returns the changes.
// Concurrent calls run one at a time.
func Reload(db *DB, cache *catalog.Cache, logger *slog.Logger, cb EventCallback) []catalog.Change {
	reloadMu.Lock()
	defer reloadMu.Unlock()

	prev := cache.Current()
	next, changed := cache.Refresh()
	if !changed {
		return nil
	}

	if err := Sync(db, next, logger); err != nil {
		logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
	}

	changes := catalog.Diff(prev, next)
	for _, ch := range changes {
		logger.Debug("watcher: paper changed", slog.String("id", ch.ID), slog.String("op", string(ch.Kind)))
		if cb != nil {
			cb(string(ch.Kind), ch.ID)
		}
	}
	return changes
}
