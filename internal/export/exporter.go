// Package export writes sampled rows in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rebeliceyang/lazydb/internal/models"
)

// WriteCSV writes the sample as CSV with a header row. NULL cells are
// written as empty fields.
func WriteCSV(w io.Writer, sample *models.SampleResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(sample.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, row := range sample.Rows {
		record := make([]string, len(row))
		for j, cell := range row {
			if !sample.IsNull(i, j) {
				record[j] = cell
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// document is the JSON shape of a sample. Rows are arrays in column order so
// the declared order survives; NULL cells are JSON null.
type document struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Limit   int      `json:"limit"`
}

// WriteJSON writes the sample as an indented JSON document
func WriteJSON(w io.Writer, sample *models.SampleResult) error {
	doc := document{
		Table:   sample.Table,
		Columns: sample.Columns,
		Rows:    make([][]any, len(sample.Rows)),
		Limit:   sample.Limit,
	}
	for i, row := range sample.Rows {
		values := make([]any, len(row))
		for j, cell := range row {
			if !sample.IsNull(i, j) {
				values[j] = cell
			}
		}
		doc.Rows[i] = values
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal sample to JSON: %w", err)
	}
	return nil
}
