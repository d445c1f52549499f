package storage

import "github.com/sirupsen/logrus"

// Config holds the options an Open caller can tune. Generalizes the
// teacher's DatabaseConfig/DatabaseOption (app/config.go); MaxConcurrency
// and ReadTimeout are dropped since spec.md §5 rules out internal
// parallelism and in-flight cancellation for the core (see DESIGN.md).
type Config struct {
	Logger *logrus.Logger
}

// Option is a functional option for Open, following the teacher's
// functional-options pattern.
type Option func(*Config)

// WithLogger attaches a logrus logger used for page/overflow/traversal
// diagnostics at Debug level. The zero value (nil) disables logging.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func defaultConfig() *Config {
	return &Config{Logger: nil}
}
