package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/AIBOM/internal/assemble"
	"github.com/idlab-discover/AIBOM/internal/graph"
	"github.com/idlab-discover/AIBOM/internal/viewer"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the lineage graph over HTTP",
		Long: `Start the lineage viewer. The graph is rebuilt from the metadata store
on every request, so the page always reflects the current store contents.`,
		Example: `  aibom serve --store metadata.db --listen-addr :8080`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := ConfigFrom(cmd.Context())
	logger := LoggerFrom(cmd.Context())

	load := func(ctx context.Context) (graph.JSONGraph, error) {
		store, err := openStore(cfg, logger)
		if err != nil {
			return graph.JSONGraph{}, err
		}
		defer store.Close()

		res, err := assemble.NewBuilder(assemble.Config{
			Store:       store,
			Logger:      logger,
			ModelKind:   cfg.ModelType,
			DatasetKind: cfg.DatasetType,
			Context:     cfg.Context,
		}).Build()
		if err != nil {
			return graph.JSONGraph{}, err
		}
		return graph.ToJSON(graph.Build(res.Documents, cfg.DatasetType)), nil
	}

	srv := viewer.NewServer(cfg.ListenAddr, load, logger)
	return srv.Serve(cmd.Context())
}
