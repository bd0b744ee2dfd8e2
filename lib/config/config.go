// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file for [Load].
const EnvironmentVariable = "QBIQ_CONFIG"

// Environment selects which override section applies.
type Environment string

const (
	// Development talks to servers on the local machine.
	Development Environment = "development"
	// Production talks to the public qBiq servers.
	Production Environment = "production"
)

// Production and development server defaults.
const (
	DefaultAuthServerURL   = "https://auth.ubiqweus.com"
	DefaultAPIServerURL    = "https://api.ubiqweus.com"
	DefaultAPIVersion      = "v1"
	DevelopmentAuthURL     = "http://localhost:8181"
	DevelopmentAPIURL      = "http://localhost:8080"
	DefaultRequestTimeout  = 60 * time.Second
	DefaultLogLevel        = "info"
	defaultSessionFileName = "session.cbor"
	defaultKeyFileName     = "session.key"
)

// Config is the qbiq client configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	// Home is the directory holding client state. Other paths default
	// to files inside it.
	Home string `yaml:"home"`

	Servers ServersConfig `yaml:"servers"`
	Session SessionConfig `yaml:"session"`
	Push    PushConfig    `yaml:"push"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment section may replace.
type Overrides struct {
	Servers  *ServersConfig `yaml:"servers,omitempty"`
	Session  *SessionConfig `yaml:"session,omitempty"`
	LogLevel string         `yaml:"log_level,omitempty"`
}

// ServersConfig locates the two qBiq servers.
type ServersConfig struct {
	// Auth is the auth server's base URL.
	Auth string `yaml:"auth"`

	// API is the device API server's base URL, without the version.
	API string `yaml:"api"`

	// APIVersion is appended to API as a path segment.
	APIVersion string `yaml:"api_version"`

	// Timeout bounds each request, as a Go duration string.
	Timeout string `yaml:"timeout"`
}

// SessionConfig locates the saved login.
type SessionConfig struct {
	// File is where the session is stored.
	File string `yaml:"file"`

	// KeyFile, when set, is an age identity used to seal File.
	KeyFile string `yaml:"key_file"`
}

// PushConfig describes this installation's push notification device.
type PushConfig struct {
	// DeviceID is registered with the account after each login. Empty
	// disables registration.
	DeviceID string `yaml:"device_id"`

	// DeviceType accompanies DeviceID.
	DeviceType string `yaml:"device_type"`
}

// Default returns the production configuration.
func Default() *Config {
	home := defaultHome()
	return &Config{
		Environment: Production,
		Home:        home,
		Servers: ServersConfig{
			Auth:       DefaultAuthServerURL,
			API:        DefaultAPIServerURL,
			APIVersion: DefaultAPIVersion,
			Timeout:    DefaultRequestTimeout.String(),
		},
		Session: SessionConfig{
			File: filepath.Join("${QBIQ_HOME}", defaultSessionFileName),
		},
		Push:     PushConfig{DeviceType: "ios"},
		LogLevel: DefaultLogLevel,
	}
}

func defaultHome() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "qbiq")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".qbiq")
}

// Load loads the file named by QBIQ_CONFIG. When the variable is unset
// it returns the expanded [Default] configuration.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults, applies the
// matching environment section, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// applyEnvironmentOverrides applies the section for cfg.Environment.
// Development without a servers section points at localhost.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
		if overrides == nil || overrides.Servers == nil {
			if c.Servers.Auth == DefaultAuthServerURL {
				c.Servers.Auth = DevelopmentAuthURL
			}
			if c.Servers.API == DefaultAPIServerURL {
				c.Servers.API = DevelopmentAPIURL
			}
		}
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if servers := overrides.Servers; servers != nil {
		if servers.Auth != "" {
			c.Servers.Auth = servers.Auth
		}
		if servers.API != "" {
			c.Servers.API = servers.API
		}
		if servers.APIVersion != "" {
			c.Servers.APIVersion = servers.APIVersion
		}
		if servers.Timeout != "" {
			c.Servers.Timeout = servers.Timeout
		}
	}
	if sess := overrides.Session; sess != nil {
		if sess.File != "" {
			c.Session.File = sess.File
		}
		if sess.KeyFile != "" {
			c.Session.KeyFile = sess.KeyFile
		}
	}
	if overrides.LogLevel != "" {
		c.LogLevel = overrides.LogLevel
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Home = expandVars(c.Home, vars)
	vars["QBIQ_HOME"] = c.Home

	c.Session.File = expandVars(c.Session.File, vars)
	c.Session.KeyFile = expandVars(c.Session.KeyFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}
	if err := validateServerURL("servers.auth", c.Servers.Auth); err != nil {
		errs = append(errs, err)
	}
	if err := validateServerURL("servers.api", c.Servers.API); err != nil {
		errs = append(errs, err)
	}
	if strings.Trim(c.Servers.APIVersion, "/") == "" {
		errs = append(errs, errors.New("servers.api_version is required"))
	}
	if timeout, err := time.ParseDuration(c.Servers.Timeout); err != nil || timeout <= 0 {
		errs = append(errs, fmt.Errorf("servers.timeout must be a positive duration, got %q", c.Servers.Timeout))
	}
	if c.Session.File == "" {
		errs = append(errs, errors.New("session.file is required"))
	}
	if c.Push.DeviceID != "" && c.Push.DeviceType == "" {
		errs = append(errs, errors.New("push.device_type is required when push.device_id is set"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateServerURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an http or https URL, got %q", field, raw)
	}
	return nil
}

// APIBaseURL returns the device API URL including its version segment.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.Servers.API, "/") + "/" + strings.Trim(c.Servers.APIVersion, "/")
}

// RequestTimeout returns Servers.Timeout, or the default if it does not
// parse.
func (c *Config) RequestTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Servers.Timeout)
	if err != nil || timeout <= 0 {
		return DefaultRequestTimeout
	}
	return timeout
}

// ParseLogLevel converts a level name to its slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", name)
	}
	return level, nil
}

// EnsureHome creates the state directory.
func (c *Config) EnsureHome() error {
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return fmt.Errorf("config: creating %s: %w", c.Home, err)
	}
	return nil
}
