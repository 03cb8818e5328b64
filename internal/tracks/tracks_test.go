package tracks

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/services"
	"github.com/desertthunder/tracksheet/internal/shared"
)

func TestParsePlaylistID(t *testing.T) {
	tc := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "share url", ref: "https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd", want: "37i9dQZF1DX0XUsuxWHRQd"},
		{name: "share url with query", ref: "https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd?si=abc123", want: "37i9dQZF1DX0XUsuxWHRQd"},
		{name: "share url with fragment", ref: "https://open.spotify.com/playlist/abcDEF123#section", want: "abcDEF123"},
		{name: "uri", ref: "spotify:playlist:37i9dQZF1DX0XUsuxWHRQd", want: "37i9dQZF1DX0XUsuxWHRQd"},
		{name: "localized url", ref: "https://open.spotify.com/intl-de/playlist/XyZ987", want: "XyZ987"},
		{name: "case preserved", ref: "spotify:playlist:AbCdEf", want: "AbCdEf"},
		{name: "album url", ref: "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy", wantErr: true},
		{name: "bare id", ref: "37i9dQZF1DX0XUsuxWHRQd", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
		{name: "id only in query", ref: "https://example.com/?playlist/abc", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlaylistID(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidReference) {
					t.Fatalf("expected ErrInvalidReference, got %v", err)
				}
				var refErr *InvalidReferenceError
				if !errors.As(err, &refErr) {
					t.Errorf("expected *InvalidReferenceError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePlaylistID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func spotifyTrack(name, url string, artists ...string) *services.SpotifyTrack {
	track := &services.SpotifyTrack{Name: name, ExternalURLs: map[string]string{"spotify": url}}
	for _, a := range artists {
		track.Artists = append(track.Artists, services.SpotifyArtist{Name: a})
	}
	return track
}

func TestPlaylistNormalization(t *testing.T) {
	t.Run("drops missing and untitled tracks", func(t *testing.T) {
		items := []services.PlaylistItem{
			{Track: spotifyTrack("Windowlicker", "https://open.spotify.com/track/1", "Aphex Twin")},
			{Track: nil},
			{Track: spotifyTrack("", "https://open.spotify.com/track/2", "Nobody")},
			{Track: spotifyTrack("Teardrop", "https://open.spotify.com/track/3", "Massive Attack", "Elizabeth Fraser")},
			{Track: spotifyTrack("Halcyon", "https://open.spotify.com/track/4", "Orbital")},
		}

		got := FromPlaylistItems(items)
		if len(got) != len(items)-2 {
			t.Fatalf("expected %d tracks, got %d", len(items)-2, len(got))
		}

		rows := PlaylistRows(got)
		want := []models.Row{
			{1, "Windowlicker - Aphex Twin", "https://open.spotify.com/track/1"},
			{2, "Teardrop - Massive Attack, Elizabeth Fraser", "https://open.spotify.com/track/3"},
			{3, "Halcyon - Orbital", "https://open.spotify.com/track/4"},
		}
		for i := range want {
			if !slices.Equal(rows[i], want[i]) {
				t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
			}
		}
	})

	t.Run("track without artists", func(t *testing.T) {
		rows := PlaylistRows(FromPlaylistItems([]services.PlaylistItem{{Track: spotifyTrack("Intro", "")}}))
		if rows[0][1] != "Intro - " {
			t.Errorf("expected empty artist string, got %q", rows[0][1])
		}
		if rows[0][2] != "" {
			t.Errorf("expected empty link, got %q", rows[0][2])
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if rows := PlaylistRows(FromPlaylistItems(nil)); len(rows) != 0 {
			t.Errorf("expected no rows, got %v", rows)
		}
	})
}

func TestSavedTrackNormalization(t *testing.T) {
	t.Run("keeps every item and parses added_at", func(t *testing.T) {
		items := []services.SavedTrack{
			{AddedAt: "2024-06-01T18:30:00Z", Track: *spotifyTrack("Nightcall", "https://open.spotify.com/track/a", "Kavinsky")},
			{AddedAt: "2024-05-31T09:05:00Z", Track: services.SpotifyTrack{}},
		}

		got, err := FromSavedTracks(items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected no drops, got %d tracks", len(got))
		}

		want := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
		if !got[0].AddedAt.Equal(want) {
			t.Errorf("added_at = %v, want %v", got[0].AddedAt, want)
		}

		rows := LikesRows(got, time.UTC)
		if !slices.Equal(rows[0], models.Row{1, "Nightcall", "Kavinsky", "2024-06-01 18:30", "https://open.spotify.com/track/a"}) {
			t.Errorf("unexpected row %v", rows[0])
		}
		if rows[1][1] != "" || rows[1][2] != "" {
			t.Errorf("empty track should render empty cells, got %v", rows[1])
		}
	})

	t.Run("malformed added_at", func(t *testing.T) {
		_, err := FromSavedTracks([]services.SavedTrack{{AddedAt: "yesterday"}})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestParseAddedAt(t *testing.T) {
	tc := []struct {
		in   string
		want time.Time
	}{
		{in: "2024-01-02T03:04:05Z", want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "2024-01-02T03:04:05+02:00", want: time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC)},
		{in: "2024-01-02T03:04:05.250Z", want: time.Date(2024, 1, 2, 3, 4, 5, 250_000_000, time.UTC)},
		{in: "", want: time.Time{}},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddedAt(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseAddedAt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAddedAt(t *testing.T) {
	ts := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	if got := FormatAddedAt(ts, tokyo); got != "2025-01-01 08:30" {
		t.Errorf("expected conversion to local zone, got %s", got)
	}
	if got := FormatAddedAt(time.Time{}, time.UTC); got != "" {
		t.Errorf("zero time should format empty, got %q", got)
	}
}

func TestFileRows(t *testing.T) {
	t.Run("fixed order with defaults", func(t *testing.T) {
		attrs := map[string]string{
			"TrackID":    "42",
			"Name":       "Strings of Life",
			"Artist":     "Rhythim Is Rhythim",
			"AverageBpm": "123.00",
			"Kind":       "MP3 File",
		}

		row := FileRow(attrs)
		if len(row) != len(FileFields) {
			t.Fatalf("expected %d cells, got %d", len(FileFields), len(row))
		}
		if row[0] != "42" || row[1] != "Strings of Life" || row[6] != "123.00" {
			t.Errorf("unexpected row %v", row)
		}
		if row[3] != "" || row[10] != "" {
			t.Errorf("missing attributes should be empty strings, got %v", row)
		}
	})

	t.Run("FromAttributes keeps only the allow-list", func(t *testing.T) {
		track := FromAttributes(map[string]string{"Name": "Jaguar", "Artist": "DJ Rolando", "Kind": "WAV File"})
		if track.Title != "Jaguar" || JoinArtists(track.Artists) != "DJ Rolando" {
			t.Errorf("unexpected track %+v", track)
		}
		if _, ok := track.Attributes["Kind"]; ok {
			t.Error("attributes outside the allow-list should be dropped")
		}
		if v, ok := track.Attributes["Genre"]; !ok || v != "" {
			t.Error("allow-list fields should default to empty strings")
		}
	})

	t.Run("FileRows preserves order", func(t *testing.T) {
		rows := FileRows([]map[string]string{{"TrackID": "2"}, {"TrackID": "1"}})
		if rows[0][0] != "2" || rows[1][0] != "1" {
			t.Errorf("rows reordered: %v", rows)
		}
	})
}

func TestJoinArtists(t *testing.T) {
	if got := JoinArtists(nil); got != "" {
		t.Errorf("JoinArtists(nil) = %q", got)
	}
	if got := JoinArtists([]string{"Daft Punk", "Pharrell Williams"}); got != "Daft Punk, Pharrell Williams" {
		t.Errorf("JoinArtists() = %q", got)
	}
}
