package sheets

import (
	"context"
)

// Worksheet identifies one tab of a spreadsheet.
type Worksheet struct {
	ID      int64
	Title   string
	Rows    int64
	Columns int64
}

// Workbook is the set of worksheet operations the [Writer] needs.
type Workbook interface {
	// Find looks a worksheet up by exact title. Absence is reported as found == false, never as an error.
	Find(ctx context.Context, title string) (ws Worksheet, found bool, err error)

	// Delete removes the worksheet.
	Delete(ctx context.Context, ws Worksheet) error

	// Add creates a worksheet with the given grid size.
	Add(ctx context.Context, title string, rows, columns int64) (Worksheet, error)

	// Write stores values starting at A1 in a single update.
	Write(ctx context.Context, ws Worksheet, values [][]any) error

	// Read returns every populated cell of the worksheet as displayed strings.
	Read(ctx context.Context, title string) ([][]string, error)

	// URL is the browser link to the spreadsheet.
	URL() string
}
