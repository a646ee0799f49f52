package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/config"
	"github.com/Aaditya-jx/loadbalancing/internal/rate"
)

// Reload loads path and makes it the active configuration. The active
// configuration is kept when path fails to load or validate.
func (s *Server) Reload(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()

	s.logger.Info("configuration reloaded", zap.String("path", path))
	return nil
}

// WatchConfig reloads path whenever it changes until ctx is cancelled.
// Bursts of file events are debounced with the configured window; failed
// reloads are reported to the server's fault boundary.
func (s *Server) WatchConfig(ctx context.Context, path string) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	reload := rate.NewDebouncer(s.Reload, s.Config().Limits.Debounce.Std(),
		rate.WithClock(s.clock),
		rate.WithErrorHandler(s.faults.Error),
	)
	defer reload.Cancel()

	s.logger.Debug("watching configuration", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := reload.Call(path); err != nil {
				s.faults.Error(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
