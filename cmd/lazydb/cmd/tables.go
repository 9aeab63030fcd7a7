package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazydb/internal/models"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [target]",
	Short: "Print the reflected tables and columns",
	Long: `Tables reflects the data source and prints every table with its
columns in declared order.

Example:
  lazydb tables ./music.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	sess, err := openSession(cmd.Context(), cfg, args, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	renderSnapshot(cmd.OutOrStdout(), sess.snapshot)
	return nil
}

func renderSnapshot(w io.Writer, snap *models.SchemaSnapshot) {
	if snap.Len() == 0 {
		_, _ = fmt.Fprintf(w, "%s: no tables\n", snap.Source)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(snap.Source)
	t.AppendHeader(table.Row{"Table", "#", "Column", "Type", "Kind"})

	for _, tbl := range snap.Tables() {
		if len(tbl.Columns) == 0 {
			t.AppendRow(table.Row{tbl.Description, "", "", "", ""})
		}
		for _, col := range tbl.Columns {
			t.AppendRow(table.Row{tbl.Description, col.Position, col.Name, col.Type, col.Kind.String()})
		}
		t.AppendSeparator()
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d tables)\n", snap.Len())
}
