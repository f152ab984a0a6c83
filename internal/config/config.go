//
// jnotify/internal/config :: config.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hattya/jnotify/gntp"
	"github.com/hattya/jnotify/udp"
	"gopkg.in/yaml.v3"
)

// Backends is the list of available backends.
var Backends = []string{"gntp", "udp", "freedesktop", "desktop"}

// Config represents the configuration of jnotify.
type Config struct {
	Backend    string `toml:"backend" yaml:"backend"`
	Server     string `toml:"server" yaml:"server"` // empty means the default of the backend
	Password   string `toml:"password" yaml:"password"`
	Hash       string `toml:"hash" yaml:"hash"`             // gntp
	Encryption string `toml:"encryption" yaml:"encryption"` // gntp
	Auth       string `toml:"auth" yaml:"auth"`             // udp
	Timeout    string `toml:"timeout" yaml:"timeout"`
	Priority   int    `toml:"priority" yaml:"priority"`
	Sticky     bool   `toml:"sticky" yaml:"sticky"`
	Alert      bool   `toml:"alert" yaml:"alert"` // desktop
	LogLevel   string `toml:"log_level" yaml:"log_level"`
}

// Default returns the default Config.
func Default() *Config {
	return &Config{
		Backend:    "gntp",
		Hash:       "SHA256",
		Encryption: "NONE",
		Auth:       "MD5",
		Timeout:    "5s",
		LogLevel:   "warn",
	}
}

// Load reads the configuration file of the specified path over the default
// Config. The format is determined by the extension of the path: ".toml",
// ".yaml", or ".yml". An empty path returns the default Config.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported file format: %q", path)
	}
	return cfg, nil
}

// ApplyEnv overrides the Config by the environment variables JNOTIFY_BACKEND,
// JNOTIFY_SERVER, JNOTIFY_PASSWORD, and JNOTIFY_LOG_LEVEL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for k, p := range map[string]*string{
		"JNOTIFY_BACKEND":   &c.Backend,
		"JNOTIFY_SERVER":    &c.Server,
		"JNOTIFY_PASSWORD":  &c.Password,
		"JNOTIFY_LOG_LEVEL": &c.LogLevel,
	} {
		if v, ok := lookup(k); ok && v != "" {
			*p = v
		}
	}
}

// Validate reports whether the Config is valid.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if _, err := gntp.ParseHashAlgorithm(c.Hash); err != nil {
		return fmt.Errorf("config: hash %q: %w", c.Hash, err)
	}
	if _, err := gntp.ParseEncryptionAlgorithm(c.Encryption); err != nil {
		return fmt.Errorf("config: encryption %q: %w", c.Encryption, err)
	}
	if _, err := udp.ParseAuthMethod(c.Auth); err != nil {
		return fmt.Errorf("config: auth %q: %w", c.Auth, err)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.Priority < udp.VeryLow || udp.Emergency < c.Priority {
		return fmt.Errorf("config: priority out of range: %v", c.Priority)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration returns the timeout. An empty timeout means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	switch {
	case err != nil:
		return 0, fmt.Errorf("config: timeout: %w", err)
	case d < 0:
		return 0, fmt.Errorf("config: negative timeout: %v", d)
	}
	return d, nil
}

// Level returns the log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return l, nil
}
