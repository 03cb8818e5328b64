package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tracksheet/internal/models"
	tu "github.com/desertthunder/tracksheet/internal/testing"
)

func TestLikedSongs(t *testing.T) {
	t.Run("numbered lines with header", func(t *testing.T) {
		rows := []models.Row{
			{1, "Windowlicker", "Aphex Twin", "2025-04-26 18:03", "https://open.spotify.com/track/a"},
			{2, "Teardrop", "Massive Attack, Elizabeth Fraser", "2025-04-25 09:41", "https://open.spotify.com/track/b"},
		}

		var b strings.Builder
		if err := LikedSongs(&b, rows); err != nil {
			t.Fatalf("LikedSongs failed: %v", err)
		}

		want := "\nYour 2 most-recent liked songs:\n\n" +
			" 1. Windowlicker — Aphex Twin (added 2025-04-26 18:03)\n" +
			" 2. Teardrop — Massive Attack, Elizabeth Fraser (added 2025-04-25 09:41)\n" +
			"\n"
		if b.String() != want {
			t.Errorf("got:\n%q\nwant:\n%q", b.String(), want)
		}
	})

	t.Run("two digit indexes are not padded", func(t *testing.T) {
		var b strings.Builder
		if err := LikedSongs(&b, []models.Row{{12, "T", "A", "2025-01-01 00:00", ""}}); err != nil {
			t.Fatalf("LikedSongs failed: %v", err)
		}
		if !strings.Contains(b.String(), "\n12. T — A (added 2025-01-01 00:00)\n") {
			t.Errorf("unexpected output %q", b.String())
		}
	})

	t.Run("short rows", func(t *testing.T) {
		var b strings.Builder
		if err := LikedSongs(&b, []models.Row{{1, "T"}}); err == nil {
			t.Error("expected error for short row")
		}
	})

	t.Run("write error", func(t *testing.T) {
		if err := LikedSongs(&tu.FWriter{}, []models.Row{{1, "T", "A", "", ""}}); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("write error on a later line", func(t *testing.T) {
		var b strings.Builder
		w := tu.NewLimitedWriter(2, &b)
		rows := []models.Row{{1, "T", "A", "", ""}, {2, "U", "B", "", ""}}
		if err := LikedSongs(w, rows); err == nil {
			t.Error("expected write error")
		}
		if !strings.Contains(b.String(), " 1. T — A") {
			t.Errorf("expected first row before failure, got %q", b.String())
		}
	})
}

func TestWriteRows(t *testing.T) {
	header := []string{"Track #", "Song", "Spotify Link"}
	rows := []models.Row{
		{1, "Song A - Artist 1", "https://open.spotify.com/track/1"},
		{2, "Song, With Comma - Artist 2", "https://open.spotify.com/track/2"},
	}

	t.Run("table", func(t *testing.T) {
		var b strings.Builder
		if err := WriteRows(&b, FormatTable, header, rows); err != nil {
			t.Fatalf("WriteRows failed: %v", err)
		}

		out := b.String()
		for _, want := range []string{"Track #", "Spotify Link", "Song A - Artist 1", "https://open.spotify.com/track/2"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "Song A") > strings.Index(out, "Song, With Comma") {
			t.Error("rows should keep their order")
		}
	})

	t.Run("csv", func(t *testing.T) {
		var b strings.Builder
		if err := WriteRows(&b, FormatCSV, header, rows); err != nil {
			t.Fatalf("WriteRows failed: %v", err)
		}

		want := "Track #,Song,Spotify Link\n" +
			"1,Song A - Artist 1,https://open.spotify.com/track/1\n" +
			"2,\"Song, With Comma - Artist 2\",https://open.spotify.com/track/2\n"
		if b.String() != want {
			t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
		}
	})

	t.Run("csv write error", func(t *testing.T) {
		if err := WriteCSV(&tu.FWriter{}, header, rows); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		var b strings.Builder
		if err := WriteRows(&b, Format("xml"), header, rows); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"csv", FormatCSV, false},
		{"json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCells(t *testing.T) {
	got := Cells(models.Row{7, "x", nil, 1.5})
	want := []string{"7", "x", "", "1.5"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWriteHistory(t *testing.T) {
	run := models.NewRun(models.VariantPlaylist, "37i9dQZF1DX0XUsuxWHRQd", "Summer 24", 42, "")
	run.SetSequence(3)
	run.SetCreatedAt(time.Date(2025, 4, 26, 18, 3, 0, 0, time.UTC))

	var b strings.Builder
	if err := WriteHistory(&b, []*models.Run{run}, time.UTC); err != nil {
		t.Fatalf("WriteHistory failed: %v", err)
	}

	out := b.String()
	for _, want := range []string{"Worksheet", "2025-04-26 18:03", "playlist", "Summer 24", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}
