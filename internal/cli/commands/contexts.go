package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewContextsCommand creates the contexts command.
func NewContextsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "contexts",
		Short: "List the contexts recorded in the metadata store",
		Args:  cobra.NoArgs,
		RunE:  runContexts,
	}
}

func runContexts(cmd *cobra.Command, _ []string) error {
	cfg := ConfigFrom(cmd.Context())
	logger := LoggerFrom(cmd.Context())

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctxs, err := store.GetContexts()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, c := range ctxs {
		t.AppendRow(table.Row{c.ID, c.Name})
	}
	t.Render()
	return nil
}
