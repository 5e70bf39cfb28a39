package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultStorePath, cfg.StorePath)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "Model", cfg.ModelType)
	assert.Equal(t, "Dataset", cfg.DatasetType)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aibom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_path: /data/meta.db
output_dir: /data/boms
model_type: MLModel
log_level: debug
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/data/meta.db", cfg.StorePath)
	assert.Equal(t, "/data/boms", cfg.OutputDir)
	assert.Equal(t, "MLModel", cfg.ModelType)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, "Dataset", cfg.DatasetType)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aibom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_path: from-file.db\n"), 0o644))
	t.Setenv("AIBOM_STORE_PATH", "from-env.db")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.StorePath)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("AIBOM_OUTPUT_DIR", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "", "")
	flags.String("store", "", "")
	require.NoError(t, flags.Parse([]string{"--output-dir", "from-flag", "--store", "flag.db"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.OutputDir)
	// --store is shorthand for store_path.
	assert.Equal(t, "flag.db", cfg.StorePath)
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "flag-default", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	// A flag left at its default must not shadow the config default.
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestLoad_Validation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aibom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")

	require.NoError(t, os.WriteFile(path, []byte("log_format: xml\n"), 0o644))
	_, err = Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_format")
}

func TestNewLogger_Levels(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFormat: "text"}
	logger := cfg.NewLogger()
	assert.False(t, logger.Enabled(context.Background(), -4)) // debug
	assert.True(t, logger.Enabled(context.Background(), 4))   // warn

	cfg.Verbose = true
	logger = cfg.NewLogger()
	assert.True(t, logger.Enabled(context.Background(), -4))
}
