package library

import (
	"context"
	"fmt"
	"io"
	"time"
)

//counterfeiter:generate . ArtworkManager

// ArtworkManager is an interface for all the methods needed for managing
// album artwork in the local library.
type ArtworkManager interface {

	// FindAndSaveAlbumArtwork returns the artwork for a particular album
	// by its ID.
	FindAndSaveAlbumArtwork(
		ctx context.Context,
		albumID int64,
		size ImageSize,
	) (io.ReadCloser, error)

	// SaveAlbumArtwork stores the artwork for particular album for later
	// use.
	SaveAlbumArtwork(ctx context.Context, albumID int64, r io.Reader) error

	// RemoveAlbumArtwork removes the stored artwork for particular album.
	RemoveAlbumArtwork(ctx context.Context, albumID int64) error
}

//counterfeiter:generate . ArtistImageManager

// ArtistImageManager is an interface for all methods for managing artist
// imagery.
type ArtistImageManager interface {
	// FindAndSaveArtistImage returns the image for a particular artist by
	// its ID.
	FindAndSaveArtistImage(
		ctx context.Context,
		artistID int64,
		size ImageSize,
	) (io.ReadCloser, error)

	// SaveArtistImage stores the image for particular artist for later
	// use.
	SaveArtistImage(ctx context.Context, artistID int64, r io.Reader) error

	// RemoveArtistImage removes the stored image for particular artist.
	RemoveArtistImage(ctx context.Context, artistID int64) error
}

// ImageSize is an enum type which defines the different sizes for images
// from the ArtistImageManager and ArtworkManager.
type ImageSize int64

const (
	// OriginalImage is the full-size image as stored into the image
	// managers.
	OriginalImage ImageSize = iota

	// SmallImage is a size suitable for thumbnails.
	SmallImage
)

// String implements fmt.Stringer for ImageSize.
func (i ImageSize) String() string {
	switch i {
	case SmallImage:
		return "small"
	default:
		return "original"
	}
}

// thumbnailWidth is the width (in pixels) for images converted to the
// SmallImage size.
const thumbnailWidth = 150

// notFoundCacheTTL is how long a "nothing found on the internet" record is
// trusted before the internet is tried again.
var notFoundCacheTTL = 24 * 7 * time.Hour

// imageMaxSize is the biggest image (in bytes) which could be stored in the
// database. Uploads over this size are rejected.
const imageMaxSize = 5 * 1024 * 1024

func (lib *LocalLibrary) acquireArtworkSem(ctx context.Context) error {
	select {
	case lib.artworkSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (lib *LocalLibrary) releaseArtworkSem() {
	<-lib.artworkSem
}

// scaledImage converts the image in `reader` to the requested size. For the
// original size or when no scaler is configured the reader is returned as
// is. The input reader is consumed and closed on scaling.
func (lib *LocalLibrary) scaledImage(
	ctx context.Context,
	reader io.ReadCloser,
	size ImageSize,
) (io.ReadCloser, error) {
	if size != SmallImage || lib.imageScaler == nil {
		return reader, nil
	}
	defer reader.Close()

	scaled, err := lib.imageScaler.Scale(ctx, reader, thumbnailWidth)
	if err != nil {
		return nil, fmt.Errorf("scaling image: %w", err)
	}

	return newBytesReadCloser(scaled), nil
}
