package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/levelcheck/pkg/core"
)

var markerRe = regexp.MustCompile(`^\w+$`)

// ValidOutputs lists the accepted output formats.
var ValidOutputs = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !contains(ValidOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.OutputFormat, strings.Join(ValidOutputs, ", "))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if !markerRe.MatchString(c.TestMarker) {
		return fmt.Errorf("test_marker must be a single word, got %q", c.TestMarker)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if _, err := core.NewPolicy(c.Severity); err != nil {
		return fmt.Errorf("invalid severity configuration: %w", err)
	}
	return nil
}

// Policy returns the anomaly severity policy described by the
// configuration.
func (c *Config) Policy() (core.Policy, error) {
	policy, err := core.NewPolicy(c.Severity)
	if err != nil {
		return core.Policy{}, err
	}
	if c.Strict {
		policy = policy.Strict()
	}
	return policy, nil
}

// SlogLevel returns the log level; verbose mode always logs at debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
