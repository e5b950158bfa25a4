// Package config handles prodcat's global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/prodcat/prodcat/internal/catalog"
	"github.com/prodcat/prodcat/internal/logging"
)

// Config represents configuration stored in ~/.config/prodcat/config.yml.
type Config struct {
	OnMalformed string `yaml:"on_malformed,omitempty"` // abort (default) or skip
	StrictExit  bool   `yaml:"strict_exit,omitempty"`  // non-zero exit on usage errors
	LogLevel    string `yaml:"log_level,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"` // Prometheus textfile output
}

const (
	// Dir is the directory name under XDG_CONFIG_HOME.
	Dir = "prodcat"
	// File is the config file name.
	File = "config.yml"
)

// Environment variables that override the config file.
const (
	EnvOnMalformed = "PRODCAT_ON_MALFORMED"
	EnvStrictExit  = "PRODCAT_STRICT_EXIT"
	EnvLogLevel    = "PRODCAT_LOG_LEVEL"
	EnvMetricsFile = "PRODCAT_METRICS_FILE"
)

// Path returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/prodcat/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, Dir, File)
}

// Load reads the config file at path.
// Returns an empty config (not an error) if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvOnMalformed); v != "" {
		c.OnMalformed = v
	}
	if v := getenv(EnvStrictExit); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrictExit, err)
		}
		c.StrictExit = b
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvMetricsFile); v != "" {
		c.MetricsFile = v
	}
	return nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if _, err := catalog.ParseMalformedPolicy(c.OnMalformed); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Policy returns the malformed-line policy. Call Validate first.
func (c *Config) Policy() catalog.MalformedPolicy {
	p, _ := catalog.ParseMalformedPolicy(c.OnMalformed)
	return p
}
