// Package config loads the tool configuration from file, environment,
// and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Default values applied before any other source.
const (
	DefaultStorePath   = "metadata.db"
	DefaultOutputDir   = "boms"
	DefaultModelType   = "Model"
	DefaultDatasetType = "Dataset"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultListenAddr  = ":8080"
)

// Config is the resolved tool configuration.
type Config struct {
	// StorePath is the SQLite metadata store location (or :memory:).
	StorePath string `koanf:"store_path"`
	// OutputDir receives generated BOM files.
	OutputDir string `koanf:"output_dir"`
	// Context optionally scopes extraction to a named context.
	Context string `koanf:"context"`
	// ModelType and DatasetType are the logical kinds driving extraction.
	ModelType   string `koanf:"model_type"`
	DatasetType string `koanf:"dataset_type"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// ListenAddr is the viewer server bind address.
	ListenAddr string `koanf:"listen_addr"`

	Verbose bool `koanf:"verbose"`
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store_path must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (debug, info, warn, error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (text, json)", c.LogFormat)
	}
	return nil
}

// NewLogger builds the process logger from the configured level and
// format. Verbose forces debug level.
func (c *Config) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
