// Package config loads client configuration from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultMaxUploadSize is the authoritative client-side cap for PDF uploads.
const DefaultMaxUploadSize = 10 << 20 // 10 MiB

// Config holds everything the client needs to reach the detection API.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	MaxUploadSize  int64
	Debug          bool
}

// fileConfig is the on-disk TOML shape. Timeouts are expressed in seconds so
// the file stays editable by hand.
type fileConfig struct {
	ServerURL         string `toml:"server_url"`
	RequestTimeoutSec int    `toml:"request_timeout_sec"`
	UploadTimeoutSec  int    `toml:"upload_timeout_sec"`
	MaxUploadSize     int64  `toml:"max_upload_size"`
	Debug             *bool  `toml:"debug"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	return &Config{
		ServerURL:      "http://localhost:3000",
		RequestTimeout: 30 * time.Second,
		UploadTimeout:  2 * time.Minute,
		MaxUploadSize:  DefaultMaxUploadSize,
	}
}

// Dir returns the per-user configuration directory for the client.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "detectctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "detectctl")
}

// Path returns the default config file location.
func Path() string { return filepath.Join(Dir(), "config.toml") }

// Load reads the TOML file at path (Path() when empty), then applies
// environment overrides. A missing file is not an error; defaults are used.
// A .env file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if fc.ServerURL != "" {
			cfg.ServerURL = fc.ServerURL
		}
		if fc.RequestTimeoutSec > 0 {
			cfg.RequestTimeout = time.Duration(fc.RequestTimeoutSec) * time.Second
		}
		if fc.UploadTimeoutSec > 0 {
			cfg.UploadTimeout = time.Duration(fc.UploadTimeoutSec) * time.Second
		}
		if fc.MaxUploadSize > 0 {
			cfg.MaxUploadSize = fc.MaxUploadSize
		}
		if fc.Debug != nil {
			cfg.Debug = *fc.Debug
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DETECTCTL_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("DETECTCTL_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("DETECTCTL_UPLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.UploadTimeout = d
		}
	}
	if v := os.Getenv("DETECTCTL_MAX_UPLOAD_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.MaxUploadSize = n
		}
	}
	if v := os.Getenv("DETECTCTL_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return errors.New("server_url must not be empty")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server_url %q is not an absolute URL", c.ServerURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.UploadTimeout <= 0 {
		return errors.New("upload_timeout must be positive")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("max_upload_size must be positive")
	}
	return nil
}
