package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/AIBOM/internal/assemble"
	"github.com/idlab-discover/AIBOM/internal/graph"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	Format string
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the lineage graph",
		Long: `Extract provenance and print the resulting lineage graph without
writing BOM files. Nodes and edges are emitted in deterministic order.`,
		Example: `  # Graphviz dot output
  aibom graph --format dot | dot -Tsvg -o lineage.svg

  # Machine-readable JSON
  aibom graph --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "dot", "output format (dot|json)")
	return cmd
}

func runGraph(cmd *cobra.Command, opts *GraphOptions) error {
	cfg := ConfigFrom(cmd.Context())
	logger := LoggerFrom(cmd.Context())

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
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
		return err
	}
	g := graph.Build(res.Documents, cfg.DatasetType)

	switch opts.Format {
	case "dot":
		fmt.Fprint(cmd.OutOrStdout(), graph.DOT(g))
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(graph.ToJSON(g)); err != nil {
			return fmt.Errorf("encoding graph: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (dot, json)", opts.Format)
	}
	return nil
}
