package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from config.toml.
const (
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvSpotifyRedirectURI  = "SPOTIFY_REDIRECT_URI"
	EnvSpotifyCachePath    = "SPOTIFY_CACHE_PATH"
	EnvCredentialsPath     = "GDRIVE_CREDENTIALS_PATH"
	EnvSpreadsheetID       = "SPREADSHEET_ID"
	EnvRekordboxXMLPath    = "REKORDBOX_XML_PATH"
	EnvDatabasePath        = "TRACKSHEET_DB_PATH"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Rekordbox   RekordboxConfig   `toml:"rekordbox"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Google  GoogleConfig  `toml:"google"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	CachePath    string `toml:"cache_path"`
}

// GoogleConfig points at the service account key and the target spreadsheet.
type GoogleConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
}

// RekordboxConfig locates the Rekordbox library export.
type RekordboxConfig struct {
	XMLPath string `toml:"xml_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Map returns the Spotify credentials keyed the way services.NewSpotifyService expects.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// binding ties an environment variable to the config field it fills.
type binding struct {
	env   string
	field func(*Config) *string
}

var bindings = []binding{
	{EnvSpotifyClientID, func(c *Config) *string { return &c.Credentials.Spotify.ClientID }},
	{EnvSpotifyClientSecret, func(c *Config) *string { return &c.Credentials.Spotify.ClientSecret }},
	{EnvSpotifyRedirectURI, func(c *Config) *string { return &c.Credentials.Spotify.RedirectURI }},
	{EnvSpotifyCachePath, func(c *Config) *string { return &c.Credentials.Spotify.CachePath }},
	{EnvCredentialsPath, func(c *Config) *string { return &c.Credentials.Google.CredentialsPath }},
	{EnvSpreadsheetID, func(c *Config) *string { return &c.Credentials.Google.SpreadsheetID }},
	{EnvRekordboxXMLPath, func(c *Config) *string { return &c.Rekordbox.XMLPath }},
	{EnvDatabasePath, func(c *Config) *string { return &c.Database.Path }},
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values absent from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Resolve builds the effective configuration for one invocation.
//
// Order, lowest to highest: embedded defaults, the TOML file at configPath (when present),
// then environment variables. A .env file at envPath is loaded into the process environment
// first without overriding variables that are already set.
func Resolve(configPath, envPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			loaded, err := LoadConfig(configPath)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, envPath, err)
		}
	}

	config.ApplyEnv(os.LookupEnv)
	return config, nil
}

// ApplyEnv overlays every non-empty variable returned by lookup onto the config.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, b := range bindings {
		if v, ok := lookup(b.env); ok && v != "" {
			*b.field(c) = v
		}
	}
}

// Require returns a [ConfigError] naming the first variable in names whose value is empty.
func (c *Config) Require(names ...string) error {
	for _, name := range names {
		found := false
		for _, b := range bindings {
			if b.env != name {
				continue
			}
			found = true
			if *b.field(c) == "" {
				return &ConfigError{Name: name}
			}
		}
		if !found {
			return fmt.Errorf("%w: unknown setting %s", ErrInvalidConfig, name)
		}
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
