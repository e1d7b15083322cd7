package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pacer/internal/config"
	"pacer/internal/gateway/websocket"
	"pacer/pkg/logger"
)

const debounceDelay = 100 * time.Millisecond

// Watcher monitors the configuration file, reloads it on change, and
// tells connected clients to refresh their settings. Reloads affect the
// next session; a live session keeps the configuration it started with.
type Watcher struct {
	watcher  *fsnotify.Watcher
	hub      *websocket.Hub
	path     string
	stopCh   chan struct{}
	debounce *time.Timer
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the configuration file at path.
func NewWatcher(hub *websocket.Hub, path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: w,
		hub:     hub,
		path:    path,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.path); err != nil {
		logger.Warn().Err(err).Str("path", w.path).Msg("Failed to watch config file")
	}

	go w.run()
	return nil
}

// run processes file system events.
func (w *Watcher) run() {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only handle write and create events
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleEvent()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("Config watcher error")
		}
	}
}

// handleEvent debounces a burst of writes into one reload. Editors
// often write a file several times in quick succession.
func (w *Watcher) handleEvent() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}

	w.debounce = time.AfterFunc(debounceDelay, w.reload)
}

// reload re-reads the configuration and notifies clients.
func (w *Watcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		logger.Error().Err(err).Str("path", w.path).Msg("Config reload failed")
		return
	}
	logger.Info().Str("path", w.path).Msg("Config reloaded")

	msg := websocket.WSMessage{Type: websocket.TypeConfig}
	if data, err := json.Marshal(cfg); err == nil {
		msg.Data = data
	}

	out, err := json.Marshal(msg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal config message")
		return
	}

	w.hub.BroadcastAll(out)
}

// Stop stops the file watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	w.watcher.Close()
}
