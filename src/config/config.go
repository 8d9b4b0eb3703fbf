// Package config is responsible for finding, parsing and merging the
// user configuration with the defaults.
//
// Configurations live in $HOME/.calliope/config.json. Every value missing
// in the user file keeps its default.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/calliopefm/calliope/src/helpers"
)

// configName is the file name of the configuration inside the user path.
const configName = "config.json"

// Config contains a representation for everything in config.json.
type Config struct {
	Listen         string        `json:"listen"`
	Auth           bool          `json:"basic_authenticate"`
	Authenticate   Auth          `json:"authentication"`
	Libraries      []string      `json:"libraries"`
	UserPath       string        `json:"user_path"`
	LogFile        string        `json:"log_file"`
	SqliteDatabase string        `json:"sqlite_database"`
	Gzip           bool          `json:"gzip"`
	ReadTimeout    int           `json:"read_timeout"`
	WriteTimeout   int           `json:"write_timeout"`
	MaxHeadersSize int           `json:"max_header_bytes"`
	UserAgent      string        `json:"useragent"`
	Spotify        SpotifyConfig `json:"spotify"`

	// ArtworkRequestDelayMs is the minimal delay in milliseconds between
	// two requests to the MusicBrainz API. They are quite strict about
	// request rates.
	ArtworkRequestDelayMs int `json:"artwork_request_delay_ms"`
}

// Auth are the credentials for the API token login endpoint. Secret is
// used for signing the issued tokens.
type Auth struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Secret   string `json:"secret"`
}

// SpotifyConfig holds the client-credentials pair for the Spotify Web API.
// Cover search stays disabled while they are empty.
type SpotifyConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Default returns the configuration with which the service runs when the
// user has not overridden anything.
func Default() *Config {
	return &Config{
		Listen:                ":9996",
		LogFile:               "calliope.log",
		SqliteDatabase:        "calliope.db",
		Gzip:                  true,
		ReadTimeout:           15,
		WriteTimeout:          1200,
		MaxHeadersSize:        1048576,
		UserAgent:             "calliope",
		ArtworkRequestDelayMs: 1000,
	}
}

// FindAndParse returns the default configuration with the values from the
// user's config.json merged over it. A missing user file is created with
// the defaults so that there is something to edit.
func FindAndParse() (*Config, error) {
	cfg := Default()

	userPath, err := helpers.ProjectUserPath()
	if err != nil {
		return nil, err
	}
	cfg.UserPath = userPath

	cfgPath := cfg.UserConfigPath()
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := writeDefault(cfgPath, cfg); err != nil {
			log.Printf("could not write the default config: %s", err)
		}
		return cfg, nil
	}

	fh, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("opening config %s: %w", cfgPath, err)
	}
	defer fh.Close()

	// Unmarshalling into the defaults-populated struct leaves every
	// value missing from the file at its default.
	dec := json.NewDecoder(fh)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", cfgPath, err)
	}

	return cfg, nil
}

// UserConfigPath returns the full path to the place where the user's
// configuration file should be.
func (cfg *Config) UserConfigPath() string {
	if cfg.UserPath != "" && !filepath.IsAbs(cfg.UserPath) {
		log.Printf("User path %s was invalid as it was not rooted", cfg.UserPath)
	} else if cfg.UserPath != "" {
		return filepath.Join(cfg.UserPath, configName)
	}

	path, err := helpers.ProjectUserPath()
	if err != nil {
		log.Println(err)
		return ""
	}
	return filepath.Join(path, configName)
}

// LogFilePath returns the path to the service logfile, relative paths
// resolved against the user path.
func (cfg *Config) LogFilePath() string {
	return helpers.AbsolutePath(cfg.LogFile, cfg.UserPath)
}

// SqliteDatabasePath returns the path to the library database, relative
// paths resolved against the user path.
func (cfg *Config) SqliteDatabasePath() string {
	return helpers.AbsolutePath(cfg.SqliteDatabase, cfg.UserPath)
}

func writeDefault(cfgPath string, cfg *Config) error {
	out, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(cfgPath, out, 0644)
}
