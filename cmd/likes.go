package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/tracksheet/internal/formatter"
	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/services"
	"github.com/desertthunder/tracksheet/internal/shared"
	"github.com/desertthunder/tracksheet/internal/tracks"
	"github.com/urfave/cli/v3"
)

const likesUsage = "usage: tracksheet likes [number_of_tracks]"

// Likes prints the user's most recently saved tracks, newest first.
func (r *Runner) Likes(ctx context.Context, cmd *cli.Command) error {
	limit, err := parseLikesLimit(cmd.StringArg("count"))
	if err != nil {
		return err
	}

	if err := r.config.Require(shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret, shared.EnvSpotifyRedirectURI); err != nil {
		return err
	}

	svc, err := r.spotifyService(ctx)
	if err != nil {
		return err
	}

	saved, err := svc.SavedTracks(ctx, limit)
	if err != nil {
		return err
	}

	liked, err := tracks.FromSavedTracks(saved)
	if err != nil {
		return err
	}

	if len(liked) == 0 {
		return r.writePlain("No saved tracks found.\n")
	}

	if err := formatter.LikedSongs(r.output, tracks.LikesRows(liked, r.location)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	r.recordRun(models.VariantLikes, "me", "console", len(liked), "")
	return nil
}

// parseLikesLimit validates the optional count argument before any request is made.
func parseLikesLimit(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return services.DefaultSavedTracks, nil
	}

	limit, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number\n%s", shared.ErrInvalidArgument, arg, likesUsage)
	}
	if limit < 1 || limit > services.MaxSavedTracks {
		return 0, fmt.Errorf("%w: count must be between 1 and %d\n%s", shared.ErrInvalidArgument, services.MaxSavedTracks, likesUsage)
	}
	return limit, nil
}
