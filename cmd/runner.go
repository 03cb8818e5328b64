package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/repositories"
	"github.com/desertthunder/tracksheet/internal/services"
	"github.com/desertthunder/tracksheet/internal/sheets"
	"github.com/desertthunder/tracksheet/internal/shared"
	"github.com/desertthunder/tracksheet/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// PromptFunc asks the user a question and returns the answer.
type PromptFunc func(ctx context.Context, label string) (string, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies left nil in [RunnerOpts] are built on first use from the resolved config.
type Runner struct {
	config         *shared.Config
	spotify        services.Service
	spotifyOpts    []services.SpotifyOption
	workbook       sheets.Workbook
	sheetsOpts     []option.ClientOption
	runs           models.Repository[*models.Run]
	db             *sql.DB
	logger         *log.Logger
	output         io.Writer
	input          io.Reader
	prompt         PromptFunc
	openBrowser    func(string) error
	now            func() time.Time
	location       *time.Location
	palette        *ui.Palette
	authTimeout    time.Duration
	historyEnabled bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config         *shared.Config
	Spotify        services.Service
	SpotifyOptions []services.SpotifyOption
	Workbook       sheets.Workbook
	SheetsOptions  []option.ClientOption
	Runs           models.Repository[*models.Run]
	Logger         *log.Logger
	Output         io.Writer
	Input          io.Reader
	Prompt         PromptFunc
	OpenBrowser    func(string) error
	Now            func() time.Time
	Location       *time.Location
	AuthTimeout    time.Duration
	DisableHistory bool
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.AuthTimeout <= 0 {
		opts.AuthTimeout = 2 * time.Minute
	}

	r := &Runner{
		config:         opts.Config,
		spotify:        opts.Spotify,
		spotifyOpts:    opts.SpotifyOptions,
		workbook:       opts.Workbook,
		sheetsOpts:     opts.SheetsOptions,
		runs:           opts.Runs,
		logger:         opts.Logger,
		output:         opts.Output,
		input:          opts.Input,
		prompt:         opts.Prompt,
		openBrowser:    opts.OpenBrowser,
		now:            opts.Now,
		location:       opts.Location,
		palette:        ui.NewPalette(opts.Output),
		authTimeout:    opts.AuthTimeout,
		historyEnabled: !opts.DisableHistory,
	}
	if r.prompt == nil {
		r.prompt = func(ctx context.Context, label string) (string, error) {
			return ui.Prompt(ctx, label, r.input, r.output)
		}
	}
	return r
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "tracksheet",
		Usage:   "Export Spotify playlists, liked songs and Rekordbox libraries to Google Sheets",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Configure,
		After:    r.Close,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		playlistCommand, likesCommand, rekordboxCommand, authCommand, setupCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure resolves the configuration once per invocation, unless one was injected.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.Resolve(cmd.String("config"), ".env")
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.logger.Debug("configuration resolved", "config", cmd.String("config"))
	return ctx, nil
}

// Close releases the history database if one was opened.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// spotifyService returns the injected service or builds one from the cached token.
func (r *Runner) spotifyService(ctx context.Context) (services.Service, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	spotifyConfig := r.config.Credentials.Spotify
	token, err := services.LoadToken(spotifyConfig.CachePath)
	if err != nil {
		return nil, err
	}

	svc, err := r.newSpotifyService()
	if err != nil {
		return nil, err
	}
	svc.SetToken(ctx, token)

	r.spotify = svc
	return svc, nil
}

// newSpotifyService creates an unauthorized client whose refreshed tokens are written back to the cache.
func (r *Runner) newSpotifyService() (*services.SpotifyService, error) {
	cachePath := r.config.Credentials.Spotify.CachePath
	opts := append([]services.SpotifyOption{
		services.WithTokenRefreshCallback(func(token *oauth2.Token) {
			if err := services.SaveToken(cachePath, token); err != nil {
				r.logger.Warn("failed to update token cache", "path", cachePath, "error", err)
				return
			}
			r.logger.Debug("token refreshed", "path", cachePath)
		}),
	}, r.spotifyOpts...)

	svc, err := services.NewSpotifyService(r.config.Credentials.Spotify.Map(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	return svc, nil
}

// sheetsWorkbook returns the injected workbook or opens the configured spreadsheet.
func (r *Runner) sheetsWorkbook(ctx context.Context) (sheets.Workbook, error) {
	if r.workbook != nil {
		return r.workbook, nil
	}

	google := r.config.Credentials.Google
	opts := r.sheetsOpts
	if len(opts) == 0 {
		creds, err := sheets.CredentialsOption(ctx, google.CredentialsPath)
		if err != nil {
			return nil, err
		}
		opts = []option.ClientOption{creds}
	}

	book, err := sheets.NewGoogleWorkbook(ctx, google.SpreadsheetID, opts...)
	if err != nil {
		return nil, err
	}

	r.workbook = book
	return book, nil
}

// history returns the run repository, opening the database on first use.
func (r *Runner) history() (models.Repository[*models.Run], error) {
	if r.runs != nil {
		return r.runs, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}

	r.db = db
	r.runs = repositories.NewRunRepository(db)
	return r.runs, nil
}

// recordRun stores run metadata. Failures are logged and never fail the command.
func (r *Runner) recordRun(variant models.Variant, source, worksheet string, rows int, url string) {
	if !r.historyEnabled {
		return
	}

	runs, err := r.history()
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		return
	}

	logger := shared.WithLogger(r.logger, "variant", variant, "source", source)
	run := models.NewRun(variant, source, worksheet, rows, url)
	run.SetCreatedAt(r.now().UTC())
	if err := runs.Create(run); err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	logger.Debug("run recorded", "id", run.ID(), "sequence", run.Sequence())
}

// replaceWorksheet writes rows through a [sheets.Writer], announcing a replaced worksheet.
func (r *Runner) replaceWorksheet(ctx context.Context, name string, header []string, rows []models.Row) (*sheets.Result, error) {
	book, err := r.sheetsWorkbook(ctx)
	if err != nil {
		return nil, err
	}

	result, err := sheets.NewWriter(book, r.logger).Replace(ctx, name, header, rows)
	if err != nil {
		return nil, err
	}

	if result.Replaced {
		r.writePlain("Deleted existing worksheet '%s'.\n", result.Title)
	}
	return result, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, shared.ErrNoRows)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
