// Package config loads the CLI's optional YAML configuration file,
// grounded on dynajoe-tinydb's yaml-tagged Config
// (internal/backend/engine.go). Nothing here touches the database file
// format: per spec.md §6 the core accepts no environment variables or
// persisted state beyond the database file itself, so this is strictly
// CLI-side ambient configuration (log level, color, concurrency cap).
package config

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config holds the CLI's ambient settings. Every field has a usable
// zero-value default so an absent or partial config file never
// prevents the CLI from running.
type Config struct {
	LogLevel       logrus.Level `yaml:"log_level"`
	Color          bool         `yaml:"color"`
	MaxConcurrency int          `yaml:"max_concurrency"`
}

// Default returns the configuration used when no file is loaded:
// warn-level logging, color left to terminal detection (set by the
// caller, not here), and a concurrency cap of 1 matching spec.md §5's
// single-threaded execution requirement.
func Default() Config {
	return Config{
		LogLevel:       logrus.WarnLevel,
		MaxConcurrency: 1,
	}
}

// Load reads a YAML config file at path, starting from Default and
// overlaying whatever fields the file sets. A missing file is not an
// error; it just yields the default configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	return cfg, nil
}
