package sheets

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/shared"
)

// Result describes a completed worksheet replacement.
type Result struct {
	Title    string
	Rows     int
	Replaced bool // an older worksheet with the same title was deleted
	URL      string
}

// Writer replaces worksheets in a [Workbook].
type Writer struct {
	book   Workbook
	logger *log.Logger
}

// NewWriter creates a [Writer]. A nil logger discards debug output.
func NewWriter(book Workbook, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Writer{book: book, logger: logger}
}

// Replace writes header and rows into a worksheet titled SanitizeTitle(name),
// deleting any existing worksheet with that title first.
//
// An empty row set returns [shared.ErrNoRows] and touches nothing.
func (w *Writer) Replace(ctx context.Context, name string, header []string, rows []models.Row) (*Result, error) {
	if len(rows) == 0 {
		return nil, shared.ErrNoRows
	}

	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", shared.ErrInvalidInput, i+1, len(row), len(header))
		}
	}

	title := SanitizeTitle(name)
	if title == "" {
		return nil, fmt.Errorf("%w: %q has no characters usable in a worksheet title", shared.ErrInvalidInput, name)
	}

	existing, found, err := w.book.Find(ctx, title)
	if err != nil {
		return nil, err
	}

	if found {
		w.logger.Debug("deleting existing worksheet", "title", title, "id", existing.ID)
		if err := w.book.Delete(ctx, existing); err != nil {
			return nil, err
		}
	}

	ws, err := w.book.Add(ctx, title, int64(len(rows)+1), int64(len(header)))
	if err != nil {
		return nil, err
	}
	w.logger.Debug("created worksheet", "title", ws.Title, "id", ws.ID, "rows", ws.Rows, "columns", ws.Columns)

	values := make([][]any, 0, len(rows)+1)
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	values = append(values, head)
	for _, row := range rows {
		values = append(values, row)
	}

	if err := w.book.Write(ctx, ws, values); err != nil {
		return nil, err
	}

	return &Result{Title: title, Rows: len(rows), Replaced: found, URL: w.book.URL()}, nil
}
