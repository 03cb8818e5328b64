package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/tracksheet/internal/formatter"
	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/services"
	"github.com/desertthunder/tracksheet/internal/shared"
	"github.com/desertthunder/tracksheet/internal/tracks"
	"github.com/desertthunder/tracksheet/internal/ui"
	"github.com/urfave/cli/v3"
)

// Playlist exports every track of a Spotify playlist into a worksheet named after the playlist.
//
// Without a positional reference the user is prompted for one.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	dryRun := cmd.Bool("dry-run")
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	required := []string{shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret, shared.EnvSpotifyRedirectURI}
	if !dryRun {
		required = append(required, shared.EnvCredentialsPath, shared.EnvSpreadsheetID)
	}
	if err := r.config.Require(required...); err != nil {
		return err
	}

	reference, err := r.playlistReference(ctx, cmd.StringArg("reference"))
	if err != nil {
		return err
	}

	playlistID, err := tracks.ParsePlaylistID(reference)
	if err != nil {
		return err
	}
	r.logger.Debug("resolved playlist", "reference", reference, "id", playlistID)

	r.writePlain("Fetching playlist data from Spotify...\n")
	playlist, err := r.fetchPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	if len(playlist.Tracks) == 0 {
		return r.writePlain("No tracks found in the playlist.\n")
	}

	r.writePlain("Found playlist '%s' with %d tracks.\n", playlist.Name, len(playlist.Tracks))
	rows := tracks.PlaylistRows(playlist.Tracks)

	if dryRun {
		return formatter.WriteRows(r.output, format, tracks.PlaylistHeader, rows)
	}

	r.writePlain("Creating Google Sheets worksheet...\n")
	result, err := r.replaceWorksheet(ctx, playlist.Name, tracks.PlaylistHeader, rows)
	if err != nil {
		return err
	}

	r.writePlain("Created worksheet '%s' with %d tracks.\n", result.Title, result.Rows)
	r.writePlain("Spreadsheet URL: %s\n", result.URL)
	r.recordRun(models.VariantPlaylist, playlist.ID, result.Title, result.Rows, result.URL)

	return r.writePlain("%s\n", r.palette.Success("Done!"))
}

// playlistReference returns ref, or asks for one when it is blank.
func (r *Runner) playlistReference(ctx context.Context, ref string) (string, error) {
	if ref = strings.TrimSpace(ref); ref != "" {
		return ref, nil
	}

	answer, err := r.prompt(ctx, ui.PlaylistPrompt)
	if errors.Is(err, ui.ErrAborted) {
		return "", fmt.Errorf("%w: no playlist URL provided", shared.ErrMissingArgument)
	}
	if err != nil {
		return "", err
	}

	if answer = strings.TrimSpace(answer); answer == "" {
		return "", fmt.Errorf("%w: no playlist URL provided", shared.ErrMissingArgument)
	}
	return answer, nil
}

// fetchPlaylist reads playlist metadata and every item, then normalizes the items.
func (r *Runner) fetchPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	svc, err := r.spotifyService(ctx)
	if err != nil {
		return nil, err
	}

	meta, err := svc.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	items, err := services.CollectPlaylistItems(svc.PlaylistItems(ctx, playlistID))
	if err != nil {
		return nil, err
	}

	normalized := tracks.FromPlaylistItems(items)
	r.logger.Debug("playlist fetched", "name", meta.Name, "items", len(items), "tracks", len(normalized))

	id := meta.ID
	if id == "" {
		id = playlistID
	}
	return &models.Playlist{ID: id, Name: meta.Name, Tracks: normalized}, nil
}
