package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/idlab-discover/AIBOM/internal/assemble"
	"github.com/idlab-discover/AIBOM/internal/cyclonedx"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Where string
	Clean bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(version string) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extract provenance and write BOM documents",
		Long: `Walk the metadata store, reconstruct model and dataset provenance, and
write one cross-referencing CycloneDX BOM file per artifact version.`,
		Example: `  # Generate BOMs for every model in the store
  aibom generate --store metadata.db

  # Restrict to one experiment context
  aibom generate --context experiment-1

  # Only models whose declared property matches
  aibom generate --where framework=TensorFlow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, version, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "filter models by declared property (key=value)")
	cmd.Flags().BoolVar(&opts.Clean, "clean", true, "remove previously generated BOM files first")

	return cmd
}

func runGenerate(cmd *cobra.Command, version string, opts *GenerateOptions) error {
	cfg := ConfigFrom(cmd.Context())
	logger := LoggerFrom(cmd.Context())

	propKey, propValue, err := parseWhere(opts.Where)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	builder := assemble.NewBuilder(assemble.Config{
		Store:         store,
		Logger:        logger,
		ModelKind:     cfg.ModelType,
		DatasetKind:   cfg.DatasetType,
		Context:       cfg.Context,
		PropertyKey:   propKey,
		PropertyValue: propValue,
	})
	res, err := builder.Build()
	if err != nil {
		return err
	}

	if opts.Clean {
		if err := cyclonedx.CleanOutputs(cfg.OutputDir, logger); err != nil {
			return err
		}
	}

	gen := cyclonedx.NewGenerator(version)
	gen.DatasetKind = cfg.DatasetType
	if err := gen.WriteFiles(cmd.Context(), cfg.OutputDir, res.Documents, logger); err != nil {
		return err
	}
	if err := writeMetadataDump(cfg.OutputDir, res); err != nil {
		return err
	}

	printSummary(cmd, res, cfg.OutputDir)
	return nil
}

// parseWhere splits a key=value filter expression.
func parseWhere(expr string) (key, value string, err error) {
	if expr == "" {
		return "", "", nil
	}
	key, value, ok := strings.Cut(expr, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid --where %q, expected key=value", expr)
	}
	return key, value, nil
}

// writeMetadataDump writes the raw extracted documents next to the BOM
// files for inspection.
func writeMetadataDump(dir string, res *assemble.Result) error {
	data, err := json.MarshalIndent(res.Documents, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata dump: %w", err)
	}
	path := filepath.Join(dir, "metadata.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing metadata dump: %w", err)
	}
	return nil
}

func printSummary(cmd *cobra.Command, res *assemble.Result, outputDir string) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Chain", "Versions"})

	appendChains := func(kind string, chains map[string]int) {
		names := make([]string, 0, len(chains))
		for name := range chains {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			t.AppendRow(table.Row{kind, name, chains[name]})
		}
	}
	appendChains("model", res.ModelChains)
	appendChains("dataset", res.DatasetChains)

	t.AppendFooter(table.Row{"", "documents", len(res.Documents)})
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d BOM files to %s\n", len(res.Documents), outputDir)
}
