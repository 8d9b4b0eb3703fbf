package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/calliopefm/calliope/src/assert"
)

// TestUserValuesOverrideDefaults makes sure decoding a user file into the
// defaults keeps every unset value at its default.
func TestUserValuesOverrideDefaults(t *testing.T) {
	cfg := Default()

	userFile := `{
		"listen": "127.0.0.1:1234",
		"libraries": ["/mnt/music"],
		"spotify": {"client_id": "id", "client_secret": "secret"}
	}`

	dec := json.NewDecoder(strings.NewReader(userFile))
	assert.NilErr(t, dec.Decode(cfg), "decoding the user config failed")

	assert.Equal(t, "127.0.0.1:1234", cfg.Listen, "listen was not overridden")
	if len(cfg.Libraries) != 1 || cfg.Libraries[0] != "/mnt/music" {
		t.Errorf("libraries were not overridden: %v", cfg.Libraries)
	}
	assert.Equal(t, "id", cfg.Spotify.ClientID)
	assert.Equal(t, "secret", cfg.Spotify.ClientSecret)

	// Untouched values keep their defaults.
	assert.Equal(t, true, cfg.Gzip, "gzip default was lost")
	assert.Equal(t, "calliope.db", cfg.SqliteDatabase, "database default was lost")
	assert.Equal(t, "calliope", cfg.UserAgent, "useragent default was lost")
}

// TestPathsAreResolvedAgainstUserPath checks resolving the relative
// logfile and database paths.
func TestPathsAreResolvedAgainstUserPath(t *testing.T) {
	cfg := Default()
	cfg.UserPath = "/home/someone/.calliope"

	assert.Equal(
		t,
		"/home/someone/.calliope/calliope.db",
		cfg.SqliteDatabasePath(),
		"wrong database path",
	)

	cfg.LogFile = "/var/log/calliope.log"
	assert.Equal(
		t,
		"/var/log/calliope.log",
		cfg.LogFilePath(),
		"an absolute logfile path was mangled",
	)
}
