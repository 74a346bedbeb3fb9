package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/workopia")

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres://db/workopia", cfg.Database.URL)
	assert.Equal(t, "workopia_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9000"
  max_body_bytes: 2048
database:
  url: "postgres://yaml/workopia"
session:
  ttl: 2h
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.EqualValues(t, 2048, cfg.Server.MaxBodyBytes)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
}

func TestLoadEnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "REDIS_URL=redis://cache:6379/0\nWORKOPIA_SESSION_SECURE=true\n")

	t.Setenv("REDIS_URL", "")
	os.Unsetenv("REDIS_URL")
	t.Setenv("WORKOPIA_SESSION_SECURE", "")
	os.Unsetenv("WORKOPIA_SESSION_SECURE")

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Session.Secure)
}

func TestLoadMissingEnvFileIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "server: [\n"), "")
		assert.Error(t, err)
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("WORKOPIA_SESSION_TTL", "forever")
		_, err := Load("", "")
		assert.ErrorContains(t, err, "WORKOPIA_SESSION_TTL")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(_ *Config) {}},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: "server.addr"},
		{name: "empty database", mutate: func(c *Config) { c.Database.URL = "" }, wantErr: "database.url"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: "session.ttl"},
		{name: "zero handler timeout", mutate: func(c *Config) { c.Server.HandlerTimeout = 0 }, wantErr: "server.handler_timeout"},
		{name: "bcrypt cost", mutate: func(c *Config) { c.Security.BcryptCost = 40 }, wantErr: "bcrypt_cost"},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "half metrics credential", mutate: func(c *Config) { c.Metrics.Username = "ops" }, wantErr: "metrics.username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"WORKOPIA_ADDR":        ":7000",
		"WORKOPIA_BCRYPT_COST": "12",
		"WORKOPIA_SESSION_TTL": "30m",

		"WORKOPIA_TRUSTED_PROXIES": "10.0.0.0/8, 127.0.0.1,",
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
}
