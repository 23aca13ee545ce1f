package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 300 * time.Millisecond

// configWatcher reloads the config file when it changes on disk.
type configWatcher struct {
	path     string
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	onChange func(*Config, error)

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// watchConfig calls onChange with the reloaded config, or the load error,
// after each change to path. The directory is watched so editors that
// replace the file on save are noticed.
func watchConfig(path string, logger *zap.Logger, onChange func(*Config, error)) (*configWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("no config file")
	}
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &configWatcher{
		path:     filepath.Clean(path),
		logger:   logger,
		watcher:  fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	logger.Info("watching config", zap.String("path", path))
	return w, nil
}

func (w *configWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("config file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()))
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// schedule coalesces bursts of events into one reload.
func (w *configWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *configWatcher) reload() {
	config, err := reloadConfig(w.path)
	if err != nil {
		w.logger.Error("invalid configuration after reload", zap.Error(err))
	} else {
		w.logger.Info("configuration reloaded", zap.String("path", w.path))
	}
	w.onChange(config, err)
}

func (w *configWatcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	return w.watcher.Close()
}
