package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tracksheet/internal/formatter"
	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/rekordbox"
	"github.com/desertthunder/tracksheet/internal/shared"
	"github.com/desertthunder/tracksheet/internal/tracks"
	"github.com/urfave/cli/v3"
)

// Rekordbox exports every track of a Rekordbox XML library into a worksheet named after today's date.
func (r *Runner) Rekordbox(ctx context.Context, cmd *cli.Command) error {
	dryRun := cmd.Bool("dry-run")
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if xmlPath := cmd.String("xml"); xmlPath != "" {
		r.config.Rekordbox.XMLPath = xmlPath
	}

	required := []string{shared.EnvRekordboxXMLPath}
	if !dryRun {
		required = append(required, shared.EnvCredentialsPath, shared.EnvSpreadsheetID)
	}
	if err := r.config.Require(required...); err != nil {
		return err
	}

	xmlPath := r.config.Rekordbox.XMLPath
	r.writePlain("Loading XML from %s…\n", xmlPath)

	reader := rekordbox.Reader{CollectionOnly: cmd.Bool("collection-only")}
	records, err := reader.ReadFile(xmlPath)
	if err != nil {
		return err
	}

	rows := tracks.FileRows(records)
	r.writePlain("Found %d tracks.\n", len(rows))

	if dryRun {
		return formatter.WriteRows(r.output, format, tracks.FileFields, rows)
	}

	sheetName := r.now().In(r.location).Format("2006-01-02")
	result, err := r.replaceWorksheet(ctx, sheetName, tracks.FileFields, rows)
	if isNoRows(err) {
		return r.writePlain("No tracks found in %s, nothing to write.\n", xmlPath)
	}
	if err != nil {
		return err
	}

	r.writePlain("Wrote %d rows to '%s'.\n", result.Rows, result.Title)
	r.recordRun(models.VariantRekordbox, xmlPath, result.Title, result.Rows, result.URL)

	r.writePlain("%s\n", r.palette.Success("Done! Your sheet is here:"))
	return r.writePlain("%s\n", result.URL)
}
