package web

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange after changes under dir settle, until ctx is done.
// While dir does not exist its parent is watched so that its creation is
// noticed, including after dir is removed.
func Watch(ctx context.Context, logger *slog.Logger, dir string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := dir
	if _, err := os.Stat(dir); err != nil {
		target = filepath.Dir(dir)
	}
	if err := w.Add(target); err != nil {
		return err
	}
	logger.Debug("watching bundle", "dir", target)

	const settle = 250 * time.Millisecond
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			self := filepath.Clean(ev.Name) == filepath.Clean(dir)
			switch {
			case target != dir && self && ev.Has(fsnotify.Create):
				// The bundle directory appeared; follow it instead of the parent.
				if err := w.Add(dir); err == nil {
					_ = w.Remove(target)
					target = dir
				}
			case target == dir && self && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)):
				// The directory is gone with its watch; wait for it in the parent.
				parent := filepath.Dir(dir)
				if err := w.Add(parent); err != nil {
					logger.Warn("not watching bundle", "dir", parent, "err", err)
					return err
				}
				target = parent
				logger.Debug("watching bundle", "dir", target)
			case target != dir:
				continue
			}
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-timer.C:
			onChange()
		}
	}
}
