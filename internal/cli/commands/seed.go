package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/idlab-discover/AIBOM/internal/scenario"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <scenario.yaml>",
		Short: "Populate the metadata store from a scenario file",
		Long: `Initialize the store schema and insert the types, artifacts, executions,
events, and contexts declared in a YAML scenario file.`,
		Example: `  # Seed an in-repo training scenario
  aibom seed scenarios/training.yaml --store metadata.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args[0])
		},
	}
}

func runSeed(cmd *cobra.Command, path string) error {
	cfg := ConfigFrom(cmd.Context())
	logger := LoggerFrom(cmd.Context())

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.InitSchema(); err != nil {
		return err
	}

	sum, err := scenario.NewSeeder(store, logger).Seed(sc)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Entity", "Count"})
	t.AppendRows([]table.Row{
		{"artifact types", sum.ArtifactTypes},
		{"execution types", sum.ExecutionTypes},
		{"context types", sum.ContextTypes},
		{"contexts", sum.Contexts},
		{"artifacts", sum.Artifacts},
		{"executions", sum.Executions},
		{"events", sum.Events},
		{"attributions", sum.Attributions},
		{"associations", sum.Associations},
	})
	t.Render()
	return nil
}
