// Package library deals with the actual music collection. It creates the
// Library type.
//
// Every media file receives an ID in the collection. The main thing a search
// result returns is the tracks' IDs. They are used to get the media, again
// using the Library. That way the real location of the file is never
// revealed to the interface.
package library

import (
	"context"
	"strings"
)

// UnknownLabel is used in case some media tag is missing. As a consequence
// if there are many files with missing title, artist and album only one of
// them will be saved in the library.
const UnknownLabel = "Unknown"

// SearchResult contains a result for a search term. Contains all the
// necessary information to uniquely identify a media in the library.
type SearchResult struct {
	ID          int64   `json:"id"`
	ArtistID    int64   `json:"artist_id"`
	Artist      string  `json:"artist"`
	AlbumArtist string  `json:"album_artist,omitempty"`
	AlbumID     int64   `json:"album_id"`
	Album       string  `json:"album"`
	Title       string  `json:"title"`
	TrackNumber int64   `json:"track"`
	Year        int64   `json:"year,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// EffectiveAlbumArtist returns the album artist when the track has one and
// falls back to the track artist otherwise.
func (sr SearchResult) EffectiveAlbumArtist() string {
	if sr.AlbumArtist != "" {
		return sr.AlbumArtist
	}
	return sr.Artist
}

// Artist represents an artist from the library.
type Artist struct {
	ID   int64  `json:"artist_id"`
	Name string `json:"artist"`
}

// Album represents an album from the library.
type Album struct {
	ID     int64  `json:"album_id"`
	Name   string `json:"album"`
	Artist string `json:"artist"`
}

// SearchArgs describes a single search in the collection. Query is a string
// of whitespace separated tokens. A token of the form "column:value" is
// matched against this column only, optionally with a leading comparison
// operator in the value. All other tokens are matched against the track
// title, album and artist names.
type SearchArgs struct {
	Query  string
	Filter FilterOptions
}

// Library represents the music collection which the server exposes. It is
// responsible for scanning the collection directories, watching for new
// files, searching for a media by a search term and finding the exact file
// path in the file system for a media.
type Library interface {

	// AddLibraryPath adds a new path to the library paths.
	AddLibraryPath(string)

	// Search searches the library using the parsed search arguments. Will
	// OR the results for the free text tokens. So it is "return anything
	// which Artist matches or Album matches or Title matches".
	Search(ctx context.Context, args SearchArgs) []SearchResult

	// GetFilePath returns the real filesystem path. Requires the media ID.
	GetFilePath(ctx context.Context, mediaID int64) string

	// GetArtistName returns the name of the artist for an artist ID.
	GetArtistName(ctx context.Context, artistID int64) (string, error)

	// Scan starts a background library scan. Will scan all paths if they
	// are not scanned already.
	Scan()

	// AddMedia adds this media file to the library.
	AddMedia(filename string) error

	// Truncate makes the library forget everything. Also closes the
	// library.
	Truncate() error

	// Close frees all resources used by this library object. Any
	// operations (except Truncate) on a closed library will result in
	// panic.
	Close()
}

// trackColumns maps the logical track columns which may be used in search
// tokens and tree filters to their SQL expressions in the collection query.
var trackColumns = map[string]string{
	"title":       "t.name",
	"album":       "al.name",
	"artist":      "at.name",
	"albumartist": "t.album_artist",
	"genre":       "t.genre",
	"year":        "t.year",
	"track":       "t.number",
	"rating":      "t.rating",
}

// IsTrackColumn returns true when name (case-insensitively) is one of the
// logical track columns which search tokens and tree filters may refer to.
func IsTrackColumn(name string) bool {
	_, ok := trackColumns[strings.ToLower(name)]
	return ok
}
