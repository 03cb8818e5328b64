// submodule cmd contains command definitions
package main

import (
	"strconv"

	"github.com/desertthunder/tracksheet/internal/formatter"
	"github.com/desertthunder/tracksheet/internal/repositories"
	"github.com/desertthunder/tracksheet/internal/services"
	"github.com/urfave/cli/v3"
)

// playlistCommand exports a Spotify playlist to a worksheet named after it
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlist",
		Aliases:   []string{"pl"},
		Usage:     "Export a Spotify playlist to Google Sheets",
		ArgsUsage: "[playlist URL or URI]",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "reference",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the rows instead of writing the worksheet",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Dry-run output format (table or csv)",
				Value: string(formatter.FormatTable),
			},
		},
		Action: r.Playlist,
	}
}

// likesCommand prints the most recently liked songs
func likesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "likes",
		Usage:     "Print your most recently liked Spotify songs",
		ArgsUsage: "[count (1-" + strconv.Itoa(services.MaxSavedTracks) + ", default " + strconv.Itoa(services.DefaultSavedTracks) + ")]",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "count",
			},
		},
		Action: r.Likes,
	}
}

// rekordboxCommand exports a Rekordbox XML library to a worksheet named after today's date
func rekordboxCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "rekordbox",
		Aliases: []string{"rb"},
		Usage:   "Export a Rekordbox XML library to Google Sheets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "xml",
				Usage: "Path to rekordbox.xml (overrides rekordbox.xml_path)",
			},
			&cli.BoolFlag{
				Name:  "collection-only",
				Usage: "Only read tracks inside COLLECTION, skipping playlist references",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the rows instead of writing the worksheet",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Dry-run output format (table or csv)",
				Value: string(formatter.FormatTable),
			},
		},
		Action: r.Rekordbox,
	}
}

// authCommand runs the Spotify authorization code flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authorize tracksheet with Spotify and cache the token",
		Action: r.Auth,
	}
}

// setupCommand writes config.toml and prepares the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from the template and initialize the history database",
		Action: r.Setup,
	}
}

// historyCommand lists recorded runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent exports",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to show",
				Value:   repositories.DefaultRecentLimit,
			},
		},
		Action: r.History,
	}
}
