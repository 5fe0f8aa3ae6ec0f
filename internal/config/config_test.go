//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost:5432/realty
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Server.RateLimitPerMin != 60 {
		t.Errorf("default rate limit: got %d", cfg.Server.RateLimitPerMin)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("default shutdown timeout: got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("default log settings: %+v", cfg.Log)
	}
	if cfg.Commission.AgentBonus != 5 || cfg.Commission.ProviderBonus != 8 {
		t.Errorf("default commission rates: %+v", cfg.Commission)
	}
	if cfg.Reminder.WindowDays != 7 {
		t.Errorf("default reminder window: %d", cfg.Reminder.WindowDays)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not carried")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  rate_limit_per_min: 10
database:
  url: postgres://localhost:5432/realty
auth:
  jwt_secret: super-secret
commission:
  agent_bonus: 7
  provider_bonus: 11
`)
	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port override: got %d", cfg.Server.Port)
	}
	if cfg.Commission.AgentBonus != 7 || cfg.Commission.ProviderBonus != 11 {
		t.Errorf("commission overrides: %+v", cfg.Commission)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("database url is required", func(t *testing.T) {
		path := writeConfig(t, `server: {port: 8080}`)
		if _, err := LoadConfig(path, true); err == nil {
			t.Error("expected error for missing database url")
		}
	})

	t.Run("jwt secret required outside dev", func(t *testing.T) {
		path := writeConfig(t, `
database:
  url: postgres://localhost:5432/realty
`)
		if _, err := LoadConfig(path, false); err == nil {
			t.Error("expected error for missing jwt secret")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.yaml", true); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
