package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazydb/internal/db/metadata"
	"github.com/rebeliceyang/lazydb/internal/export"
	"github.com/rebeliceyang/lazydb/internal/models"
)

var sampleCmd = &cobra.Command{
	Use:   "sample TABLE [target]",
	Short: "Print a bounded sample of one table",
	Long: `Sample reads at most --limit rows (default 100) of TABLE through a
read-only transaction and prints them.

TABLE is the name shown by 'lazydb tables', e.g. albums or sales.invoices.

Example:
  lazydb sample albums ./music.db --limit 10
  lazydb sample albums ./music.db --format csv > albums.csv`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSample,
}

var outputFormat string

func init() {
	sampleCmd.Flags().StringVarP(&outputFormat, "format", "f", "table",
		"Output format (table, csv, json)")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown output format %q (want table, csv or json)", outputFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	sess, err := openSession(cmd.Context(), cfg, args[1:], log)
	if err != nil {
		return err
	}
	defer sess.Close()

	tbl, err := findTable(sess.snapshot, args[0])
	if err != nil {
		return err
	}

	tlog := log.WithTable(tbl.QualifiedName())
	sampler := metadata.NewSampler(sess.pool, sampleOptions(cfg))
	tlog.Infow("sampling", "limit", sampler.Limit())

	result, err := sampler.Sample(cmd.Context(), tbl)
	if err != nil {
		tlog.Errorw("sample failed", "error", err)
		return err
	}

	w := cmd.OutOrStdout()
	switch outputFormat {
	case "csv":
		return export.WriteCSV(w, result)
	case "json":
		return export.WriteJSON(w, result)
	default:
		renderSample(w, tbl, result)
		return nil
	}
}

// findTable looks a table up by qualified name, then by bare name when that
// is unambiguous
func findTable(snap *models.SchemaSnapshot, name string) (*models.TableDescriptor, error) {
	if tbl, ok := snap.Get(name); ok {
		return tbl, nil
	}

	var found []*models.TableDescriptor
	for _, tbl := range snap.Tables() {
		if tbl.Name == name || tbl.Description == name {
			found = append(found, tbl)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("table %q not found in %s", name, snap.Source)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("table name %q is ambiguous; qualify it with a schema", name)
	}
}

func renderSample(w io.Writer, tbl *models.TableDescriptor, result *models.SampleResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	var configs []table.ColumnConfig
	for i, col := range tbl.Columns {
		if col.Kind.Numeric() {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	t.SetColumnConfigs(configs)

	for _, row := range result.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}

	if len(result.Rows) == 0 {
		_, _ = fmt.Fprintf(w, "%s: (0 rows)\n", tbl.Description)
		return
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows, limit %d)\n", len(result.Rows), result.Limit)
}
