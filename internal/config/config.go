// Package config loads the workopia configuration from a YAML file, an
// optional .env file and environment variable overrides. Invalid
// configuration fails fast at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	HandlerTimeout  time.Duration `yaml:"handler_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	StaticMaxAge    int           `yaml:"static_max_age"`

	// TrustedProxies lists the reverse proxies whose forwarding headers are
	// honoured. Empty means the server faces clients directly.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

// RedisConfig configures the session store backend. An empty URL selects
// the in-memory store.
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SessionConfig configures the session cookie.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SecurityConfig configures response headers, password hashing and the
// login throttle.
type SecurityConfig struct {
	HSTSMaxAge    int           `yaml:"hsts_max_age"`
	BcryptCost    int           `yaml:"bcrypt_cost"`
	LoginInterval time.Duration `yaml:"login_interval"`
	LoginBurst    int           `yaml:"login_burst"`
}

// MetricsConfig configures the /metrics endpoint. When both Username and
// Password are set, the endpoint requires Basic authentication.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			HandlerTimeout:  20 * time.Second,
			MaxBodyBytes:    1 << 20,
			StaticMaxAge:    3600,
		},
		Database: DatabaseConfig{
			URL:      "postgres://localhost:5432/workopia?sslmode=disable",
			MaxConns: 10,
		},
		Redis: RedisConfig{
			KeyPrefix: "workopia:session:",
		},
		Session: SessionConfig{
			CookieName: "workopia_session",
			TTL:        24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			BcryptCost:    10,
			LoginInterval: 6 * time.Second,
			LoginBurst:    5,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// non-empty), then variables from envFile (when it exists), then the process
// environment. The result is validated before it is returned.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides fields from environment variables. DATABASE_URL and
// REDIS_URL are honoured without a prefix so the usual platform variables
// work unchanged.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	str("DATABASE_URL", &c.Database.URL)
	str("REDIS_URL", &c.Redis.URL)
	str("WORKOPIA_ADDR", &c.Server.Addr)
	str("WORKOPIA_LOG_LEVEL", &c.Logging.Level)
	str("WORKOPIA_LOG_FORMAT", &c.Logging.Format)
	str("WORKOPIA_SESSION_COOKIE", &c.Session.CookieName)
	str("WORKOPIA_METRICS_USERNAME", &c.Metrics.Username)
	str("WORKOPIA_METRICS_PASSWORD", &c.Metrics.Password)

	if v, ok := lookup("WORKOPIA_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Server.TrustedProxies = append(c.Server.TrustedProxies, p)
			}
		}
	}

	if v, ok := lookup("WORKOPIA_SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WORKOPIA_SESSION_TTL: %w", err)
		}
		c.Session.TTL = d
	}

	if v, ok := lookup("WORKOPIA_SESSION_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WORKOPIA_SESSION_SECURE: %w", err)
		}
		c.Session.Secure = b
	}

	if v, ok := lookup("WORKOPIA_BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WORKOPIA_BCRYPT_COST: %w", err)
		}
		c.Security.BcryptCost = n
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server.addr is required")
	case c.Database.URL == "":
		return errors.New("database.url is required")
	case c.Session.CookieName == "":
		return errors.New("session.cookie_name is required")
	case c.Session.TTL <= 0:
		return errors.New("session.ttl must be positive")
	case c.Server.HandlerTimeout <= 0:
		return errors.New("server.handler_timeout must be positive")
	case c.Server.MaxBodyBytes <= 0:
		return errors.New("server.max_body_bytes must be positive")
	case c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31:
		return fmt.Errorf("security.bcrypt_cost %d out of range 4..31", c.Security.BcryptCost)
	case c.Security.LoginInterval <= 0 || c.Security.LoginBurst <= 0:
		return errors.New("security.login_interval and security.login_burst must be positive")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}

	if (c.Metrics.Username == "") != (c.Metrics.Password == "") {
		return errors.New("metrics.username and metrics.password must be set together")
	}

	return nil
}
