package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plctl.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeTempConfig(t, "device:\n  host: 192.168.1.10\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device.Host != "192.168.1.10" {
		t.Errorf("Device.Host = %q, want 192.168.1.10", cfg.Device.Host)
	}
	if cfg.Device.Port != defaultPort {
		t.Errorf("Device.Port = %d, want %d", cfg.Device.Port, defaultPort)
	}
	if cfg.Session.DurationS != 30 {
		t.Errorf("Session.DurationS = %d, want 30", cfg.Session.DurationS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load: want error for missing file, got nil")
	}
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	path := writeTempConfig(t, "device:\n  port: 9090\n  discovery_timeout_s: 5\nsession:\n  duration_s: 60\n  record: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device.Port != 9090 {
		t.Errorf("Device.Port = %d, want 9090", cfg.Device.Port)
	}
	if cfg.DiscoveryTimeout().Seconds() != 5 {
		t.Errorf("DiscoveryTimeout() = %v, want 5s", cfg.DiscoveryTimeout())
	}
	if !cfg.Session.Record {
		t.Error("Session.Record = false, want true")
	}
}
