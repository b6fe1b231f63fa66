package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDeviceConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
host = "192.168.0.105"
username = "admin"
password = "admin"
`)
	cfg, err := LoadDeviceConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("port=%d want=9100", cfg.Port)
	}
	if cfg.Relays != 3 {
		t.Fatalf("relays=%d want=3", cfg.Relays)
	}
	if cfg.ParseTimeout() != 0 {
		t.Fatalf("timeout=%v want zero (session default applies)", cfg.ParseTimeout())
	}
}

func TestLoadDeviceConfigExplicit(t *testing.T) {
	path := writeConfig(t, `
host = "10.0.0.9"
port = 9101
username = "ops"
password = "hunter2"
relays = 8
timeout = "2s"
`)
	cfg, err := LoadDeviceConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9101 || cfg.Relays != 8 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ParseTimeout() != 2*time.Second {
		t.Fatalf("timeout=%v want=2s", cfg.ParseTimeout())
	}
}

func TestLoadDeviceConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing host", `username = "admin"`},
		{"bad port", "host = \"h\"\nport = 70000"},
		{"bad relays", "host = \"h\"\nrelays = -1"},
		{"bad timeout", "host = \"h\"\ntimeout = \"soon\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			if _, err := LoadDeviceConfig(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadDeviceConfigMissingFile(t *testing.T) {
	if _, err := LoadDeviceConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected load error")
	}
}
