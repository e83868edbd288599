// Package config loads settings from built-in defaults, an optional TOML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendOxiDB  = "oxidb"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
	Form   FormConfig
	Client ClientConfig
}

type ServerConfig struct {
	Addr string
}

type StoreConfig struct {
	Backend   string
	DataDir   string
	OxiDBHost string
	OxiDBPort int
	PoolSize  int
}

type LogConfig struct {
	Level    string
	GelfAddr string
}

type FormConfig struct {
	// Path to a YAML or JSON form definition. Empty means the built-in questionnaire.
	Path string
}

type ClientConfig struct {
	ServerURL     string
	SubmitTimeout time.Duration
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":3000"},
		Store: StoreConfig{
			Backend:   BackendJSON,
			DataDir:   "/var/www/facility-form-data",
			OxiDBHost: "127.0.0.1",
			OxiDBPort: 4444,
			PoolSize:  3,
		},
		Log: LogConfig{Level: "info"},
		Client: ClientConfig{
			ServerURL:     "http://localhost:3000",
			SubmitTimeout: 15 * time.Second,
		},
	}
}

// Load builds the effective configuration. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := fc.apply(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("FORM_ADDR", c.Server.Addr)
	c.Store.Backend = getEnv("FORM_STORE", c.Store.Backend)
	c.Store.DataDir = getEnv("FORM_DATA_DIR", c.Store.DataDir)
	c.Store.OxiDBHost = getEnv("OXIDB_HOST", c.Store.OxiDBHost)
	c.Store.OxiDBPort = getEnvInt("OXIDB_PORT", c.Store.OxiDBPort)
	c.Store.PoolSize = getEnvInt("FORM_POOL_SIZE", c.Store.PoolSize)
	c.Log.Level = getEnv("FORM_LOG_LEVEL", c.Log.Level)
	c.Log.GelfAddr = getEnv("FORM_GELF_ADDR", c.Log.GelfAddr)
	c.Form.Path = getEnv("FORM_DEFINITION", c.Form.Path)
	c.Client.ServerURL = getEnv("FORM_SERVER_URL", c.Client.ServerURL)
	if v := os.Getenv("FORM_SUBMIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FORM_SUBMIT_TIMEOUT: %w", err)
		}
		c.Client.SubmitTimeout = d
	}
	return nil
}

// Validate rejects settings the server or client cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
		if c.Store.DataDir == "" {
			return fmt.Errorf("store data dir is empty")
		}
	case BackendOxiDB:
		if c.Store.PoolSize <= 0 {
			return fmt.Errorf("oxidb pool size must be positive, got %d", c.Store.PoolSize)
		}
		if c.Store.OxiDBPort <= 0 || c.Store.OxiDBPort > 65535 {
			return fmt.Errorf("oxidb port out of range: %d", c.Store.OxiDBPort)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Client.SubmitTimeout <= 0 {
		return fmt.Errorf("submit timeout must be positive, got %s", c.Client.SubmitTimeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultPath returns the default TOML config path.
func DefaultPath() string {
	return filepath.Join(XDGConfigHome(), "node-form", "config.toml")
}
