package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/pitstop/sync/logging"
)

// Watcher watches a config file and reloads it on change, debouncing
// rapid editor write bursts.
type Watcher struct {
	watcher    *fsnotify.Watcher
	path       string
	debounce   time.Duration
	mu         sync.Mutex
	lastChange time.Time
	logger     *logrus.Entry
	onReload   func(*Config)
}

// NewWatcher starts watching path. onReload is called with the freshly
// loaded configuration after every valid change; invalid configs are
// logged and skipped, keeping the previous one in effect.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		watcher:  fsw,
		path:     path,
		debounce: 500 * time.Millisecond,
		logger:   logging.NewLogger("config-watcher"),
		onReload: onReload,
	}
	go w.loop()
	w.logger.WithField("path", path).Info("Watching config file")
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mu.Lock()
			now := time.Now()
			if now.Sub(w.lastChange) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.lastChange = now
			w.mu.Unlock()
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Watcher error")
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.WithError(err).Warn("Ignoring invalid config change")
		return
	}
	w.logger.Info("Config reloaded")
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
