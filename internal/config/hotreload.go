package config

import (
	"context"
	"sync"
	"time"
)

// HotReloadManager manages hot reloading of configuration
type HotReloadManager struct {
	config     *Config
	mu         sync.RWMutex
	reloadFunc func(*Config) error
	onError    func(error)
}

// NewHotReloadManager creates a new hot reload manager
func NewHotReloadManager(initialConfig *Config, reloadFunc func(*Config) error) *HotReloadManager {
	return &HotReloadManager{
		config:     initialConfig,
		reloadFunc: reloadFunc,
	}
}

// OnError registers a callback for reload failures
func (h *HotReloadManager) OnError(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = fn
}

// GetConfig returns the current configuration (thread-safe)
func (h *HotReloadManager) GetConfig() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// UpdateConfig updates the configuration (thread-safe)
func (h *HotReloadManager) UpdateConfig(newConfig *Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Validate new configuration
	if err := validateConfig(newConfig); err != nil {
		return err
	}

	// Call reload function if provided
	if h.reloadFunc != nil {
		if err := h.reloadFunc(newConfig); err != nil {
			return err
		}
	}

	// Update configuration
	h.config = newConfig
	return nil
}

func (h *HotReloadManager) reportError(err error) {
	h.mu.RLock()
	onError := h.onError
	h.mu.RUnlock()
	if onError != nil {
		onError(err)
	}
}

// WatchConfigFile polls the configuration file and reloads it on every tick
func (h *HotReloadManager) WatchConfigFile(ctx context.Context, configPath string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Reload configuration from file
			newConfig, err := Load(configPath)
			if err != nil {
				// Continue with existing config
				h.reportError(err)
				continue
			}

			if err := h.UpdateConfig(newConfig); err != nil {
				h.reportError(err)
				continue
			}
		}
	}
}
