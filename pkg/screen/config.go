// Package screen holds the admin-tunable display configuration: which
// content types are enabled and the current pricing. The service reads it as
// a passive snapshot and fans changes out to connected clients.
package screen

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Config is the broadcastable screen configuration snapshot.
type Config struct {
	EnableImage bool `json:"enableImage"`
	EnableText  bool `json:"enableText"`
	Price       int  `json:"price"`
	Time        int  `json:"time"`
}

// Update carries a partial config change; nil fields keep their value.
type Update struct {
	EnableImage *bool `json:"enableImage"`
	EnableText  *bool `json:"enableText"`
	Price       *int  `json:"price"`
	Time        *int  `json:"time"`
}

// DefaultConfig mirrors the values the screen ships with.
func DefaultConfig() Config {
	return Config{EnableImage: true, EnableText: true, Price: 100, Time: 10}
}

// Holder is the mutex-guarded current configuration. Changes from the admin
// endpoint and from external edits of the backing file both land here and are
// pushed to onChange.
type Holder struct {
	mu       sync.RWMutex
	cfg      Config
	path     string
	onChange func(Config)
}

// NewHolder seeds a holder from the JSON file at path, falling back to the
// defaults when the file is missing or unreadable.
func NewHolder(path string, onChange func(Config)) *Holder {
	h := &Holder{cfg: DefaultConfig(), path: path, onChange: onChange}
	if err := h.reload(); err != nil {
		log.WithError(err).WithField("file", path).Info("screen config file not loaded, using defaults")
	}
	return h
}

// Snapshot returns the current configuration.
func (h *Holder) Snapshot() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Apply merges a partial update, persists the result and notifies listeners.
func (h *Holder) Apply(u Update) Config {
	h.mu.Lock()
	if u.EnableImage != nil {
		h.cfg.EnableImage = *u.EnableImage
	}
	if u.EnableText != nil {
		h.cfg.EnableText = *u.EnableText
	}
	if u.Price != nil {
		h.cfg.Price = *u.Price
	}
	if u.Time != nil {
		h.cfg.Time = *u.Time
	}
	cfg := h.cfg
	h.mu.Unlock()

	if h.path != "" {
		if data, err := json.MarshalIndent(cfg, "", "  "); err == nil {
			if err := os.WriteFile(h.path, data, 0o644); err != nil {
				log.WithError(err).Warn("screen config not persisted")
			}
		}
	}
	h.notify(cfg)
	return cfg
}

// reload reads the backing file into the holder.
func (h *Holder) reload() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
	return nil
}

// Watch follows external edits of the backing file until ctx is cancelled.
// Editors and atomic writers fire different event combinations, so any
// write/create on the file triggers a reload.
func (h *Holder) Watch(ctx context.Context) error {
	if h.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(h.path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := h.reload(); err != nil {
					log.WithError(err).Warn("screen config reload failed")
					continue
				}
				log.Info("screen config reloaded from file")
				h.notify(h.Snapshot())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("screen config watcher error")
			}
		}
	}()
	return nil
}

func (h *Holder) notify(cfg Config) {
	if h.onChange != nil {
		h.onChange(cfg)
	}
}
