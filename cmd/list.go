package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"grafop/internal/config"
	"grafop/internal/store"
	"grafop/pkg/logging"
)

// listCmd shows the fragments the operator has accumulated, read from the
// persisted state file. It inspects state only; it does not talk to the
// running operator or the workload.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accumulated datasource and database fragments",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelWarn, cmd.ErrOrStderr())

	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	st, err := store.Load(cfg.Operator.StateFile)
	if err != nil {
		return fmt.Errorf("failed to load state from %s: %w", cfg.Operator.StateFile, err)
	}

	out := cmd.OutOrStdout()
	renderSources(out, st.Sources())
	renderDatabase(out, st)

	if pending := st.PendingDeletions(); len(pending) > 0 {
		fmt.Fprintf(out, "\nPending deletions: %v\n", pending)
	}
	return nil
}

func renderSources(out io.Writer, sources []store.DatasourceRecord) {
	if len(sources) == 0 {
		fmt.Fprintln(out, "No datasources accumulated.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"RELATION", "NAME", "TYPE", "ADDRESS", "PORT", "DEFAULT"})
	for _, s := range sources {
		t.AppendRow(table.Row{s.RelationID, s.Name, s.Type, s.Address, s.Port, s.IsDefault})
	}
	t.Render()
}

func renderDatabase(out io.Writer, st *store.Store) {
	db, ok := st.Database()
	if !ok {
		fmt.Fprintln(out, "No database backend configured (using sqlite3 default).")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"DB TYPE", "HOST", "NAME", "USER"})
	t.AppendRow(table.Row{db.Type, db.Host, db.Name, db.User})
	t.Render()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
