// Package cli provides the command-line interface for the AIBOM
// provenance extractor.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/AIBOM/internal/cli/commands"
	"github.com/idlab-discover/AIBOM/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "aibom",
		Short: "AIBOM - AI provenance and BOM generator",
		Long: `AIBOM reconstructs the provenance of AI models from an event-sourced
metadata store and emits per-version CycloneDX BOM documents that
cross-reference each other: version lineage, dataset usage, and library
dependencies.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := cfg.NewLogger()

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./aibom.yaml)")
	rootCmd.PersistentFlags().String("store", "", "path to the SQLite metadata store")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for generated BOM files")
	rootCmd.PersistentFlags().String("context", "", "restrict extraction to a named context")
	rootCmd.PersistentFlags().String("model-type", "", "logical model kind (default: Model)")
	rootCmd.PersistentFlags().String("dataset-type", "", "logical dataset kind (default: Dataset)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json)")
	rootCmd.PersistentFlags().String("listen-addr", "", "viewer listen address")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewGenerateCommand(Version))
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewContextsCommand())
	rootCmd.AddCommand(commands.NewGraphCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
