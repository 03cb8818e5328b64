package sheets

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/shared"
	tu "github.com/desertthunder/tracksheet/internal/testing"
	"google.golang.org/api/option"
)

const testSpreadsheetID = "sheet-123"

func newTestWorkbook(t *testing.T) (*GoogleWorkbook, *tu.FakeSheets) {
	t.Helper()
	fake := tu.NewFakeSheets(t, testSpreadsheetID)
	book, err := NewGoogleWorkbook(context.Background(), testSpreadsheetID,
		option.WithEndpoint(fake.Endpoint()),
		option.WithHTTPClient(fake.Server.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create workbook: %v", err)
	}
	return book, fake
}

func playlistRows(n int) []models.Row {
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{i + 1, fmt.Sprintf("Song %d - Artist", i+1), fmt.Sprintf("https://open.spotify.com/track/%d", i+1)}
	}
	return rows
}

var playlistHeader = []string{"Track #", "Song", "Spotify Link"}

func TestWriter(t *testing.T) {
	ctx := context.Background()

	t.Run("Replace writes header and rows", func(t *testing.T) {
		book, fake := newTestWorkbook(t)
		w := NewWriter(book, nil)

		res, err := w.Replace(ctx, "My/Playlist: Summer '24!", playlistHeader, playlistRows(3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Title != "MyPlaylist Summer 24" {
			t.Errorf("expected sanitized title, got %q", res.Title)
		}
		if res.Rows != 3 || res.Replaced {
			t.Errorf("unexpected result: %+v", res)
		}
		if res.URL != "https://docs.google.com/spreadsheets/d/"+testSpreadsheetID {
			t.Errorf("unexpected url %s", res.URL)
		}

		sheet, ok := fake.Sheet("MyPlaylist Summer 24")
		if !ok {
			t.Fatal("worksheet was not created")
		}
		if sheet.Rows != 4 || sheet.Columns != 3 {
			t.Errorf("expected 4x3 grid, got %dx%d", sheet.Rows, sheet.Columns)
		}

		want := []string{"get", "addSheet", "values.update"}
		if got := fake.Calls(); !slices.Equal(got, want) {
			t.Errorf("calls = %v, want %v", got, want)
		}
	})

	t.Run("round trip preserves content and order", func(t *testing.T) {
		book, _ := newTestWorkbook(t)
		w := NewWriter(book, nil)
		rows := playlistRows(5)

		res, err := w.Replace(ctx, "Round Trip", playlistHeader, rows)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := book.Read(ctx, res.Title)
		if err != nil {
			t.Fatalf("failed to read back: %v", err)
		}
		if len(got) != len(rows)+1 {
			t.Fatalf("expected %d rows including header, got %d", len(rows)+1, len(got))
		}
		if !slices.Equal(got[0], playlistHeader) {
			t.Errorf("header = %v, want %v", got[0], playlistHeader)
		}
		for i, row := range rows {
			for j, cell := range row {
				if got[i+1][j] != fmt.Sprint(cell) {
					t.Errorf("cell (%d,%d) = %q, want %q", i+1, j, got[i+1][j], fmt.Sprint(cell))
				}
			}
		}
	})

	t.Run("rerun replaces the worksheet", func(t *testing.T) {
		book, fake := newTestWorkbook(t)
		w := NewWriter(book, nil)

		if _, err := w.Replace(ctx, "Weekly", playlistHeader, playlistRows(10)); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		res, err := w.Replace(ctx, "Weekly", playlistHeader, playlistRows(2))
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if !res.Replaced {
			t.Error("second run should report a replaced worksheet")
		}

		count := 0
		for _, title := range fake.Titles() {
			if title == "Weekly" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("expected exactly one Weekly worksheet, got %d", count)
		}

		sheet, _ := fake.Sheet("Weekly")
		if len(sheet.Values) != 3 {
			t.Errorf("stale rows remain: got %d rows, want 3", len(sheet.Values))
		}
	})

	t.Run("replaces worksheet with id zero", func(t *testing.T) {
		book, fake := newTestWorkbook(t)
		w := NewWriter(book, nil)

		if _, err := w.Replace(ctx, "Sheet1", playlistHeader, playlistRows(1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Contains(fake.Calls(), "deleteSheet") {
			t.Error("expected the default sheet to be deleted")
		}
	})

	t.Run("existing worksheets with other titles are untouched", func(t *testing.T) {
		book, fake := newTestWorkbook(t)
		fake.Seed("Keep Me", [][]string{{"a"}})
		w := NewWriter(book, nil)

		if _, err := w.Replace(ctx, "New One", playlistHeader, playlistRows(1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := fake.Sheet("Keep Me"); !ok {
			t.Error("unrelated worksheet was removed")
		}
	})

	t.Run("empty rows skip the write", func(t *testing.T) {
		book, fake := newTestWorkbook(t)
		w := NewWriter(book, nil)

		_, err := w.Replace(ctx, "Empty", playlistHeader, nil)
		if !errors.Is(err, shared.ErrNoRows) {
			t.Fatalf("expected ErrNoRows, got %v", err)
		}
		if len(fake.Calls()) != 0 {
			t.Errorf("expected no API calls, got %v", fake.Calls())
		}
	})

	t.Run("title with no usable characters", func(t *testing.T) {
		book, _ := newTestWorkbook(t)
		_, err := NewWriter(book, nil).Replace(ctx, "???", playlistHeader, playlistRows(1))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("rows wider than header", func(t *testing.T) {
		book, _ := newTestWorkbook(t)
		rows := []models.Row{{1, "a", "b", "extra"}}
		_, err := NewWriter(book, nil).Replace(ctx, "Wide", playlistHeader, rows)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown spreadsheet", func(t *testing.T) {
		fake := tu.NewFakeSheets(t, "other")
		book, err := NewGoogleWorkbook(ctx, testSpreadsheetID,
			option.WithEndpoint(fake.Endpoint()),
			option.WithHTTPClient(fake.Server.Client()),
		)
		if err != nil {
			t.Fatalf("failed to create workbook: %v", err)
		}

		_, err = NewWriter(book, nil).Replace(ctx, "Any", playlistHeader, playlistRows(1))
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("lookup failure stops before any change", func(t *testing.T) {
		book := &stubWorkbook{findErr: fmt.Errorf("%w: boom", shared.ErrAPIRequest)}
		_, err := NewWriter(book, nil).Replace(ctx, "Any", playlistHeader, playlistRows(1))
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if book.deleted || book.added {
			t.Error("no worksheet should be deleted or added after a failed lookup")
		}
	})
}

func TestGoogleWorkbook(t *testing.T) {
	ctx := context.Background()

	t.Run("Find", func(t *testing.T) {
		book, fake := newTestWorkbook(t)
		fake.Seed("Existing", nil)

		ws, found, err := book.Find(ctx, "Existing")
		if err != nil || !found {
			t.Fatalf("expected to find worksheet, found=%v err=%v", found, err)
		}
		if ws.Title != "Existing" {
			t.Errorf("unexpected worksheet %+v", ws)
		}

		_, found, err = book.Find(ctx, "existing")
		if err != nil {
			t.Fatalf("absence must not be an error: %v", err)
		}
		if found {
			t.Error("lookup must be case-sensitive")
		}
	})

	t.Run("missing spreadsheet id", func(t *testing.T) {
		_, err := NewGoogleWorkbook(ctx, "")
		var cfgErr *shared.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Name != shared.EnvSpreadsheetID {
			t.Errorf("expected ConfigError for SPREADSHEET_ID, got %v", err)
		}
	})

	t.Run("CredentialsOption", func(t *testing.T) {
		dir := t.TempDir()

		if _, err := CredentialsOption(ctx, dir+"/missing.json"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for missing file, got %v", err)
		}

		bad := dir + "/bad.json"
		tu.MustWriteFile(t, bad, "not json")
		if _, err := CredentialsOption(ctx, bad); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for malformed file, got %v", err)
		}
	})
}

type stubWorkbook struct {
	findErr error
	deleted bool
	added   bool
}

func (s *stubWorkbook) Find(context.Context, string) (Worksheet, bool, error) {
	return Worksheet{}, false, s.findErr
}
func (s *stubWorkbook) Delete(context.Context, Worksheet) error { s.deleted = true; return nil }
func (s *stubWorkbook) Add(_ context.Context, title string, rows, cols int64) (Worksheet, error) {
	s.added = true
	return Worksheet{Title: title, Rows: rows, Columns: cols}, nil
}
func (s *stubWorkbook) Write(context.Context, Worksheet, [][]any) error  { return nil }
func (s *stubWorkbook) Read(context.Context, string) ([][]string, error) { return nil, nil }
func (s *stubWorkbook) URL() string                                      { return "" }
