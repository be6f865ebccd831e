// Package config provides configuration file parsing for basketmine.
//
// Settings are read from {Dir()}/config, a "key = value" file, and then
// overridden by BASKETMINE_* environment variables. Command-line flags
// take precedence over both; that layering happens in the app package.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blackwell-systems/basketmine/internal/miner"
)

// Config holds basketmine settings.
type Config struct {
	// MinSupport is the default absolute support threshold (default: 2)
	MinSupport int

	// PruneReference is "level" or "transactions" (default: level)
	PruneReference string

	// DatasetsDir holds {name}-out1.csv files for the web form (default: datasets)
	DatasetsDir string

	// Addr is the listen address of the web server (default: 127.0.0.1:5000)
	Addr string

	// DBPath is the dataset store location (default: ~/.basketmine/basketmine.db)
	DBPath string

	// LogLevel is debug, info, warn or error (default: warn)
	LogLevel string

	// LogFormat is text or json (default: text)
	LogFormat string
}

// setting binds a config file key and environment variable to a field.
type setting struct {
	key string
	env string
	set func(c *Config, value string) error
}

var settings = []setting{
	{"min_support", "BASKETMINE_MIN_SUPPORT", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		c.MinSupport = n
		return nil
	}},
	{"prune_reference", "BASKETMINE_PRUNE_REFERENCE", func(c *Config, v string) error {
		ref, err := miner.ParsePruneReference(v)
		if err != nil {
			return err
		}
		c.PruneReference = ref.String()
		return nil
	}},
	{"datasets_dir", "BASKETMINE_DATASETS_DIR", func(c *Config, v string) error {
		c.DatasetsDir = v
		return nil
	}},
	{"addr", "BASKETMINE_ADDR", func(c *Config, v string) error {
		c.Addr = v
		return nil
	}},
	{"db", "BASKETMINE_DB", func(c *Config, v string) error {
		c.DBPath = v
		return nil
	}},
	{"log_level", "BASKETMINE_LOG_LEVEL", func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	}},
	{"log_format", "BASKETMINE_LOG_FORMAT", func(c *Config, v string) error {
		c.LogFormat = v
		return nil
	}},
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MinSupport:     2,
		PruneReference: "level",
		DatasetsDir:    "datasets",
		Addr:           "127.0.0.1:5000",
		LogLevel:       "warn",
		LogFormat:      "text",
	}
}

// Dir returns the basketmine config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/basketmine if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "basketmine"), nil
}

// Load reads {dir}/config over the defaults and applies environment
// overrides. A missing file is not an error. Blank lines, comments,
// lines without "=" and unknown keys are skipped; a known key with an
// unparsable value is an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(filepath.Join(dir, "config")); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue // no "=" or "=" is first character
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" || value == "" {
			continue
		}

		values[strings.ToLower(key)] = value
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for _, s := range settings {
		value, ok := values[s.key]
		if !ok {
			continue
		}
		if err := s.set(c, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q in %s: %w", s.key, value, path, err)
		}
	}

	return nil
}

func (c *Config) loadEnv() error {
	for _, s := range settings {
		value := strings.TrimSpace(os.Getenv(s.env))
		if value == "" {
			continue
		}
		if err := s.set(c, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", s.env, value, err)
		}
	}
	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := miner.ParsePruneReference(c.PruneReference); err != nil {
		return fmt.Errorf("prune_reference must be level or transactions, got %q", c.PruneReference)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}

	return nil
}
