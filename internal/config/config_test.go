package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Database.Path != "./netpulse.db" {
		t.Errorf("Database.Path = %q, want ./netpulse.db", cfg.Database.Path)
	}
	if !cfg.Seeds.Generate {
		t.Error("Seeds.Generate should default to true")
	}
	if cfg.Alerts.WarnThreshold != 75 || cfg.Alerts.CritThreshold != 90 {
		t.Errorf("Alert thresholds = %.0f/%.0f, want 75/90",
			cfg.Alerts.WarnThreshold, cfg.Alerts.CritThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
version: 1
server:
  addr: ":8080"
database:
  path: /tmp/test.db
seeds:
  dir: ./seeds
  generate: false
  watch: true
alerts:
  warn_threshold: 60
  crit_threshold: 80
simulation:
  update_interval_ms: 1000
  retention_period_s: 600
`)
		cfg, from, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("LoadFromPath failed: %v", err)
		}
		if from != path {
			t.Errorf("loaded from %q, want %q", from, path)
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
		}
		if cfg.Seeds.Generate {
			t.Error("Seeds.Generate should be false")
		}
		if cfg.Alerts.WarnThreshold != 60 || cfg.Alerts.CritThreshold != 80 {
			t.Errorf("thresholds = %.0f/%.0f, want 60/80",
				cfg.Alerts.WarnThreshold, cfg.Alerts.CritThreshold)
		}
	})

	t.Run("partial config gets defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  addr: ":9000"
`)
		cfg, _, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("LoadFromPath failed: %v", err)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
		}
		if cfg.Alerts.WarnThreshold != 75 {
			t.Errorf("WarnThreshold = %.0f, want default 75", cfg.Alerts.WarnThreshold)
		}
		if cfg.Simulation.UpdateIntervalMS != 5000 {
			t.Errorf("UpdateIntervalMS = %d, want default 5000", cfg.Simulation.UpdateIntervalMS)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [not a mapping")
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected read error")
		}
	})

	t.Run("crit below warn rejected", func(t *testing.T) {
		path := writeConfig(t, `
alerts:
  warn_threshold: 80
  crit_threshold: 70
`)
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected validation error for crit < warn")
		}
	})

	t.Run("watch without dir rejected", func(t *testing.T) {
		path := writeConfig(t, `
seeds:
  watch: true
`)
		if _, _, err := LoadFromPath(path); err == nil {
			t.Error("expected validation error for watch without dir")
		}
	})
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("NETPULSE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if path != "" {
		t.Errorf("expected no config path, got %q", path)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q, want default :3000", cfg.Server.Addr)
	}
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":7070"
`)
	t.Setenv("NETPULSE_CONFIG", path)

	cfg, from, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if from != path {
		t.Errorf("loaded from %q, want %q", from, path)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "netpulse.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":4040"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Server.Addr != ":4040" {
		t.Errorf("Server.Addr = %q, want :4040", loaded.Server.Addr)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netpulse.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
