package library

import (
	"fmt"

	"github.com/dhowden/tag"
	"github.com/spf13/afero"
)

// MediaFile is an interface which a media object should satisfy in order to
// be inserted in the library database.
type MediaFile interface {

	// Artist returns a string which represents the artist responsible for
	// this media file.
	Artist() string

	// AlbumArtist returns the artist under which the whole album is
	// released. May be empty when the file carries no such tag.
	AlbumArtist() string

	// Album returns a string for the name of the album this media file is
	// part of.
	Album() string

	// Title returns the name of this piece of media.
	Title() string

	// Track returns the media track number in its album.
	Track() int

	// Year returns the release year of the media file's album.
	Year() int

	// Genre returns the genre tag of the media file.
	Genre() string

	// Compilation returns true when the file is tagged as part of a
	// various-artists compilation.
	Compilation() bool
}

// taggedFile is a MediaFile read from the ID3/MP4/FLAC tags of a file on
// disk.
type taggedFile struct {
	artist      string
	albumArtist string
	album       string
	title       string
	track       int
	year        int
	genre       string
	compilation bool
}

func (t *taggedFile) Artist() string      { return t.artist }
func (t *taggedFile) AlbumArtist() string { return t.albumArtist }
func (t *taggedFile) Album() string       { return t.album }
func (t *taggedFile) Title() string       { return t.title }
func (t *taggedFile) Track() int          { return t.track }
func (t *taggedFile) Year() int           { return t.year }
func (t *taggedFile) Genre() string       { return t.genre }
func (t *taggedFile) Compilation() bool   { return t.compilation }

// readMediaFile parses the metadata tags of the file at path.
func readMediaFile(appfs afero.Fs, path string) (MediaFile, error) {
	fh, err := appfs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening media file: %w", err)
	}
	defer fh.Close()

	meta, err := tag.ReadFrom(fh)
	if err != nil {
		return nil, fmt.Errorf("reading media tags: %w", err)
	}

	track, _ := meta.Track()

	return &taggedFile{
		artist:      meta.Artist(),
		albumArtist: meta.AlbumArtist(),
		album:       meta.Album(),
		title:       meta.Title(),
		track:       track,
		year:        meta.Year(),
		genre:       meta.Genre(),
		compilation: compilationFlag(meta),
	}, nil
}

// compilationFlag digs the various-artists marker out of the raw tag
// frames. There is no accessor for it in the tag package so the raw
// values are inspected directly. The marker is the TCMP text frame for
// ID3v2.3/v2.4 (TCP for v2.2), the cpil atom for MP4 and the
// "compilation" comment for Vorbis/FLAC.
func compilationFlag(meta tag.Metadata) bool {
	raw := meta.Raw()

	for _, key := range []string{"TCMP", "TCP", "cpil", "compilation", "COMPILATION"} {
		val, ok := raw[key]
		if !ok {
			continue
		}

		switch v := val.(type) {
		case bool:
			if v {
				return true
			}
		case string:
			if v != "" && v != "0" {
				return true
			}
		case int:
			if v != 0 {
				return true
			}
		case uint8:
			if v != 0 {
				return true
			}
		case []byte:
			if len(v) > 0 && v[0] != 0 {
				return true
			}
		}
	}

	return false
}
