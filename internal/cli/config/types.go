// Package config provides configuration management for the levelcheck CLI.
//
// Configuration is layered: built-in defaults, then a levelcheck.yaml (or
// .yml) file found in the working directory or one of its parents, then
// LEVELCHECK_ environment variables, then explicitly set command line flags.
package config

import (
	"time"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	LogLevel     string `koanf:"log_level"`
	// Width is the line width cycles are wrapped to.
	Width  int  `koanf:"width"`
	Strict bool `koanf:"strict"`
	// ExcludeSuffixes are component name suffixes of alternate
	// implementations whose references are ignored.
	ExcludeSuffixes []string `koanf:"exclude_suffixes"`
	// TestMarker is the comment word marking an include as test-only.
	TestMarker string `koanf:"test_marker"`
	// Severity overrides the severity of individual anomalies, keyed by
	// anomaly name (production_cycles, excess_test_deps, ...).
	Severity map[string]string `koanf:"severity"`
	Watch    WatchConfig       `koanf:"watch"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// WatchConfig holds configuration for watch mode.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel   = "warn"
	DefaultWidth      = 79
	DefaultTestMarker = "testing"
	DefaultDebounce   = 100 * time.Millisecond
	EnvPrefix         = "LEVELCHECK_"
)

// DefaultExcludeSuffixes are the alternate-implementation suffixes ignored
// unless configured otherwise.
var DefaultExcludeSuffixes = []string{"_cpp03"}

// configFileNames are searched in order in each candidate directory.
var configFileNames = []string{"levelcheck.yaml", "levelcheck.yml"}
