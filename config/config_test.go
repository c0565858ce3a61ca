package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Web.Port != 8090 {
		t.Errorf("Port = %d, want 8090", cfg.Web.Port)
	}
	if cfg.Tracking.KeepaliveInterval != 30*time.Second {
		t.Errorf("KeepaliveInterval = %v", cfg.Tracking.KeepaliveInterval)
	}
	if cfg.Tracking.IdleTimeout != 0 {
		t.Errorf("IdleTimeout = %v, want disabled", cfg.Tracking.IdleTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caterhub.yaml")
	data := `
base_url: https://cater.example
web:
  port: 9000
driver:
  auth_secret: s3cret
tracking:
  keepalive_interval: 10s
  idle_timeout: 5m
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "https://cater.example" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("Port = %d", cfg.Web.Port)
	}
	if cfg.Driver.AuthSecret != "s3cret" {
		t.Errorf("AuthSecret = %q", cfg.Driver.AuthSecret)
	}
	if cfg.Tracking.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %v", cfg.Tracking.IdleTimeout)
	}
	// Unset fields keep defaults
	if cfg.DatabasePath != "caterhub.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	t.Setenv("DRIVER_AUTH_SECRET", "env-secret")
	t.Setenv("ADMIN_PASSWORD", "env-pass")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver.AuthSecret != "env-secret" {
		t.Errorf("AuthSecret = %q", cfg.Driver.AuthSecret)
	}
	if cfg.Admin.InitialPassword != "env-pass" {
		t.Errorf("InitialPassword = %q", cfg.Admin.InitialPassword)
	}
}
