// package formatter renders normalized rows for the console: liked songs as numbered lines, other row
// sets as aligned tables or CSV, and run history as a table.
package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/desertthunder/tracksheet/internal/models"
)

// Format selects how [WriteRows] renders a row set.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatCSV:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table or csv)", s)
	}
}

// LikedSongs prints rows of [index, title, artists, added, link] as numbered lines:
//
//	 1. Title — Artist A, Artist B (added 2025-04-26 18:03)
func LikedSongs(w io.Writer, rows []models.Row) error {
	if _, err := fmt.Fprintf(w, "\nYour %d most-recent liked songs:\n\n", len(rows)); err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) < 4 {
			return fmt.Errorf("liked song row has %d cells, want at least 4", len(row))
		}
		if _, err := fmt.Fprintf(w, "%2v. %v — %v (added %v)\n", row[0], row[1], row[2], row[3]); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

// WriteRows renders header and rows in the given format.
func WriteRows(w io.Writer, format Format, header []string, rows []models.Row) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, header, rows)
	case FormatTable, "":
		return WriteTable(w, header, rows)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteTable renders header and rows as an aligned text table.
func WriteTable(w io.Writer, header []string, rows []models.Row) error {
	table := newTable(w, header)
	for _, row := range rows {
		table.Append(Cells(row))
	}
	table.Render()
	return nil
}

// WriteCSV renders header and rows as CSV.
func WriteCSV(w io.Writer, header []string, rows []models.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(Cells(row)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// HistoryHeader is the header row of [WriteHistory].
var HistoryHeader = []string{"#", "When", "Variant", "Source", "Worksheet", "Rows"}

// WriteHistory renders runs as a table, newest first as given. Timestamps use loc.
func WriteHistory(w io.Writer, runs []*models.Run, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	table := newTable(w, HistoryHeader)
	for _, run := range runs {
		table.Append([]string{
			strconv.Itoa(run.Sequence()),
			run.CreatedAt().In(loc).Format("2006-01-02 15:04"),
			string(run.Variant()),
			run.Source(),
			run.Worksheet(),
			strconv.Itoa(run.RowCount()),
		})
	}
	table.Render()
	return nil
}

// Cells converts a row to strings, rendering each cell with its default format.
func Cells(row models.Row) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		cells[i] = fmt.Sprint(v)
	}
	return cells
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	return table
}
