package library

import (
	"errors"
	"fmt"
)

var (
	// ErrArtistNotFound is returned when an artist with a particular ID is
	// not part of the library.
	ErrArtistNotFound = errors.New("artist not found")

	// ErrAlbumNotFound is returned when an album with a particular ID is
	// not part of the library.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrArtworkNotFound is returned when no image was found for an album
	// or an artist anywhere.
	ErrArtworkNotFound = NewArtworkError("artwork not found")

	// ErrCachedArtworkNotFound is returned when the database has a
	// remembered "nothing found" record for this album or artist which is
	// still fresh. Looking on the internet again would be futile.
	ErrCachedArtworkNotFound = NewArtworkError("artwork not found (cached)")

	// ErrArtworkTooBig is returned when an uploaded image exceeds the
	// limit for storing in the database.
	ErrArtworkTooBig = NewArtworkError("artwork is too big")

	// errWrongRating is returned when a rating outside of the 0-5 scale
	// is stored.
	errWrongRating = errors.New("rating must be between 0 and 5")
)

// ArtworkError is the type for all artwork and image related errors of the
// library.
type ArtworkError struct {
	Message string
}

// Error implements the error interface.
func (a *ArtworkError) Error() string {
	return a.Message
}

// NewArtworkError returns a new artwork error with this message.
func NewArtworkError(format string, args ...interface{}) *ArtworkError {
	return &ArtworkError{Message: fmt.Sprintf(format, args...)}
}
