package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}
	return path
}

func TestLoadAppliesFileAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
auth:
  jwt_secret: test-secret-at-least-16-chars
  access_token_ttl: 30m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("file value must win over the default, got port %d", cfg.Server.Port)
	}
	if cfg.Auth.AccessTokenTTL != 30*time.Minute {
		t.Errorf("expected 30m access token ttl, got %v", cfg.Auth.AccessTokenTTL)
	}

	// untouched keys keep their defaults
	if cfg.Database.Port != 5432 {
		t.Errorf("expected default db port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Auth.RefreshTokenTTLRemember != 168*time.Hour {
		t.Errorf("expected default remember-me ttl 168h, got %v", cfg.Auth.RefreshTokenTTLRemember)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
auth:
  jwt_secret: test-secret-at-least-16-chars
`)
	t.Setenv("ESCALA_SERVER_PORT", "9100")
	t.Setenv("ESCALA_DB_HOST", "db.internal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("environment must win over the file, got port %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("environment must win over the default, got host %s", cfg.Database.Host)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing jwt secret", "server:\n  port: 8080\n"},
		{"short jwt secret", "auth:\n  jwt_secret: tooshort\n"},
		{"port out of range", "server:\n  port: 70000\nauth:\n  jwt_secret: test-secret-at-least-16-chars\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfigFile(t, tc.yaml)
			if _, err := Load(path); err == nil {
				t.Error("Load must reject the invalid configuration")
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "localhost", Port: 5432, Name: "escala", User: "postgres",
		Password: "secret", SSLMode: "disable", Timezone: "America/Sao_Paulo",
	}
	want := "host=localhost port=5432 user=postgres password=secret dbname=escala sslmode=disable TimeZone=America/Sao_Paulo"
	if got := c.DSN(); got != want {
		t.Errorf("unexpected DSN:\n got %s\nwant %s", got, want)
	}
}
