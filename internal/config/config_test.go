package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SkynetNext/writeresult/internal/pool"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected log.level=info, got %s", cfg.Log.Level)
	}
	if cfg.Pool.Capacity != pool.DefaultCapacity {
		t.Errorf("Expected pool.capacity=%d, got %d", pool.DefaultCapacity, cfg.Pool.Capacity)
	}
	if cfg.Tracking.Enabled != nil {
		t.Error("Expected tracking.enabled to stay unset")
	}
	if !cfg.TrackingEnabled(true) || cfg.TrackingEnabled(false) {
		t.Error("Expected unset tracking to follow the build default")
	}
}

func TestParse_Tracking(t *testing.T) {
	cfg, err := Parse([]byte("tracking:\n  enabled: false\npool:\n  capacity: 16\n  shared: true\n"))
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	if cfg.TrackingEnabled(true) {
		t.Error("Expected tracking to be disabled")
	}
	if cfg.Pool.Capacity != 16 || !cfg.Pool.Shared {
		t.Errorf("Unexpected pool config: %+v", cfg.Pool)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"log:\n  level: verbose\n",
		"pool:\n  capacity: -1\n",
		"bench:\n  writes: -5\n",
		"not: [valid",
	}

	for _, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("Expected error for %q", data)
		}
	}
}

func TestHotReloadManager_UpdateConfig(t *testing.T) {
	var applied *Config
	mgr := NewHotReloadManager(Default(), func(cfg *Config) error {
		applied = cfg
		return nil
	})

	next := Default()
	next.Log.Level = "debug"
	if err := mgr.UpdateConfig(next); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}
	if applied != next || mgr.GetConfig() != next {
		t.Error("Expected new config to be applied and stored")
	}

	// Invalid configs are rejected before the reload callback
	bad := Default()
	bad.Pool.Capacity = 0
	if err := mgr.UpdateConfig(bad); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
	if mgr.GetConfig() != next {
		t.Error("Expected previous config to be kept")
	}
}

func TestHotReloadManager_ReloadFuncError(t *testing.T) {
	mgr := NewHotReloadManager(Default(), func(*Config) error {
		return errors.New("apply failed")
	})

	initial := mgr.GetConfig()
	if err := mgr.UpdateConfig(Default()); err == nil {
		t.Error("Expected reload error to be returned")
	}
	if mgr.GetConfig() != initial {
		t.Error("Expected config not to change on reload error")
	}
}

func TestHotReloadManager_WatchConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var reloads int32
	mgr := NewHotReloadManager(Default(), func(cfg *Config) error {
		if cfg.Log.Level == "warn" {
			atomic.AddInt32(&reloads, 1)
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := mgr.WatchConfigFile(ctx, path, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context deadline error, got %v", err)
	}
	if atomic.LoadInt32(&reloads) == 0 {
		t.Error("Expected at least one reload")
	}
	if mgr.GetConfig().Log.Level != "warn" {
		t.Errorf("Expected log.level=warn, got %s", mgr.GetConfig().Log.Level)
	}
}

func TestValidateConfig_LogLevelOverride(t *testing.T) {
	cfg := Default()
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("Expected defaults to be valid, got %v", err)
	}

	// An overridden level is checked like a configured one
	cfg.Log.Level = "verbose"
	if err := ValidateConfig(cfg); err == nil {
		t.Error("Expected unknown log level to be rejected")
	}

	cfg.Log.Level = "debug"
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("Expected debug level to be valid, got %v", err)
	}
}
