package bio

import (
	"context"
	"errors"
)

// ErrBioNotFound is returned by Fetch when the encyclopedia has no article
// and no images for the queried artist.
var ErrBioNotFound = errors.New("artist biography not found")

// Biography contains everything which was found for a single artist. The
// Article is HTML as returned by the encyclopedia. ImageURLs are URLs of
// images from the artist's article which are big enough to be usable as
// artist imagery.
type Biography struct {
	Title     string
	Article   string
	ImageURLs []string
}

//counterfeiter:generate . Fetcher

// Fetcher defines a type which is capable of finding the biography of
// an artist by the artist's name.
type Fetcher interface {
	// Fetch returns the biography for a particular artist. When nothing was
	// found it returns ErrBioNotFound.
	Fetch(ctx context.Context, artist string) (Biography, error)
}
