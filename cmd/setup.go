package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tracksheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template when it is missing, then creates and migrates
// the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file found", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.writePlain("✓ Created %s\n", configPath)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)

	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in credentials in %s (or set %s, %s, %s, %s and %s)\n", configPath,
		shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret, shared.EnvSpotifyRedirectURI,
		shared.EnvCredentialsPath, shared.EnvSpreadsheetID)
	r.writePlain("2. Run 'tracksheet auth' to authorize Spotify\n")
	return nil
}
