package notestore

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mirekh/jotdesk/internal/storage"
)

// reloadDebounce coalesces bursts of filesystem events (editors often fire
// several per save) into a single reload.
const reloadDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the notes directory and reloads the
// store whenever note files change externally, until ctx is cancelled.
// Changes made through the store itself are suppressed via RecentlyTouched.
// cb (if non-nil) is called after each watcher-driven reload.
func Watch(ctx context.Context, store *Store, dir string, logger *slog.Logger, cb func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadDebounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			if _, loadErr := store.LoadAll(); loadErr != nil {
				logger.Warn("watcher: reload failed", slog.String("error", loadErr.Error()))
				continue
			}
			logger.Debug("watcher: reloaded", slog.Int("notes", store.Len()))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, storage.Ext) {
				continue
			}
			title := strings.TrimSuffix(name, storage.Ext)
			if store.RecentlyTouched(title) {
				continue
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: external change",
					slog.String("title", title),
					slog.String("op", ev.Op.String()))
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
