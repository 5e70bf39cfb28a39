package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/idlab-discover/AIBOM/internal/config"
	"github.com/idlab-discover/AIBOM/internal/metastore"
)

// Context keys shared between the root command and subcommands.
type configKey struct{}
type loggerKey struct{}

// WithConfig stores the loaded configuration in the command context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the process logger in the command context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// ConfigFrom retrieves the configuration loaded by the root command.
func ConfigFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{
		StorePath:   config.DefaultStorePath,
		OutputDir:   config.DefaultOutputDir,
		ModelType:   config.DefaultModelType,
		DatasetType: config.DefaultDatasetType,
		LogLevel:    config.DefaultLogLevel,
		LogFormat:   config.DefaultLogFormat,
		ListenAddr:  config.DefaultListenAddr,
	}
}

// LoggerFrom retrieves the process logger, discarding when absent.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openStore opens the configured SQLite metadata store.
func openStore(cfg *config.Config, logger *slog.Logger) (*metastore.SQLiteStore, error) {
	store := metastore.NewSQLiteStore(logger)
	if err := store.Open(cfg.StorePath); err != nil {
		return nil, fmt.Errorf("opening store %s: %w", cfg.StorePath, err)
	}
	return store, nil
}
