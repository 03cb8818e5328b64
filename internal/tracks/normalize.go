package tracks

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/services"
	"github.com/desertthunder/tracksheet/internal/shared"
)

// PlaylistHeader is the header row of a playlist worksheet.
var PlaylistHeader = []string{"Track #", "Song", "Spotify Link"}

// FileFields lists the export attributes copied into a file row, in column order.
var FileFields = []string{
	"TrackID", "Name", "Artist",
	"Album", "Genre", "TotalTime",
	"AverageBpm", "DateAdded",
	"PlayCount", "Rating", "Location",
}

// ArtistSeparator joins multiple artist names in every rendered row.
const ArtistSeparator = ", "

// JoinArtists joins artist names with [ArtistSeparator].
func JoinArtists(names []string) string {
	return strings.Join(names, ArtistSeparator)
}

func artistNames(artists []services.SpotifyArtist) []string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return names
}

// FromPlaylistItems normalizes playlist items, dropping entries whose track is missing or untitled.
func FromPlaylistItems(items []services.PlaylistItem) []models.Track {
	out := make([]models.Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil || item.Track.Name == "" {
			continue
		}
		out = append(out, models.Track{
			Title:       item.Track.Name,
			Artists:     artistNames(item.Track.Artists),
			ExternalURL: item.Track.URL(),
		})
	}
	return out
}

// PlaylistRows renders tracks as [index, "title - artists", link] with 1-based indexes.
func PlaylistRows(tracks []models.Track) []models.Row {
	rows := make([]models.Row, 0, len(tracks))
	for i, t := range tracks {
		rows = append(rows, models.Row{i + 1, t.Title + " - " + JoinArtists(t.Artists), t.ExternalURL})
	}
	return rows
}

// FromSavedTracks normalizes saved tracks without dropping any.
func FromSavedTracks(items []services.SavedTrack) ([]models.Track, error) {
	out := make([]models.Track, 0, len(items))
	for i, item := range items {
		addedAt, err := ParseAddedAt(item.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: saved track %d: %v", shared.ErrInvalidInput, i+1, err)
		}
		out = append(out, models.Track{
			Title:       item.Track.Name,
			Artists:     artistNames(item.Track.Artists),
			ExternalURL: item.Track.URL(),
			AddedAt:     addedAt,
		})
	}
	return out, nil
}

// ParseAddedAt parses an ISO-8601 timestamp, treating a trailing Z as +00:00.
// An empty string yields the zero time.
func ParseAddedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// LikesRows renders saved tracks as [index, title, artists, added, link].
// added is formatted as "2006-01-02 15:04" in loc.
func LikesRows(tracks []models.Track, loc *time.Location) []models.Row {
	rows := make([]models.Row, 0, len(tracks))
	for i, t := range tracks {
		rows = append(rows, models.Row{i + 1, t.Title, JoinArtists(t.Artists), FormatAddedAt(t.AddedAt, loc), t.ExternalURL})
	}
	return rows
}

// FormatAddedAt formats t in loc, or returns "" for the zero time.
func FormatAddedAt(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// FromAttributes normalizes one export record. Missing allow-list fields become "".
func FromAttributes(attrs map[string]string) models.Track {
	kept := make(map[string]string, len(FileFields))
	for _, f := range FileFields {
		kept[f] = attrs[f]
	}

	var artists []string
	if a := kept["Artist"]; a != "" {
		artists = []string{a}
	}
	return models.Track{Title: kept["Name"], Artists: artists, Attributes: kept}
}

// FileRow renders attributes in [FileFields] order with no index column.
func FileRow(attrs map[string]string) models.Row {
	row := make(models.Row, len(FileFields))
	for i, f := range FileFields {
		row[i] = attrs[f]
	}
	return row
}

// FileRows normalizes every record and renders it with [FileRow].
func FileRows(records []map[string]string) []models.Row {
	rows := make([]models.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, FileRow(FromAttributes(r).Attributes))
	}
	return rows
}
