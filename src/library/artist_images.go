package library

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"time"

	"github.com/calliopefm/calliope/src/art"
	"github.com/calliopefm/calliope/src/bio"
)

// FindAndSaveArtistImage implements the ArtistImageManager for the local
// library. It will return a previously saved into the database artist image
// if any or try to find one on the internet (assuming it is configured).
// This function returns ReadCloser and the caller is responsible for
// freeing the used resources by calling Close().
//
// When an image for an artist is found on the internet then it will be
// saved in the database for later retrieval.
func (lib *LocalLibrary) FindAndSaveArtistImage(
	ctx context.Context,
	artistID int64,
	size ImageSize,
) (io.ReadCloser, error) {
	reader, err := lib.artistImageFromDB(ctx, artistID)
	if errors.Is(err, ErrCachedArtworkNotFound) {
		return nil, ErrArtworkNotFound
	} else if err == nil {
		return lib.scaledImage(ctx, reader, size)
	} else if !errors.Is(err, ErrArtworkNotFound) {
		return reader, err
	}

	if err := lib.acquireArtworkSem(ctx); err != nil {
		// When error is returned it means that the semaphore was not
		// acquired. So we can return safely without releasing it.
		return nil, err
	}
	defer lib.releaseArtworkSem()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err = lib.artistImageFromInternet(ctx, artistID)
	if err == nil {
		saved, err := lib.saveArtistImage(artistID, reader)
		if err != nil {
			return nil, err
		}
		return lib.scaledImage(ctx, saved, size)
	}

	if !errors.Is(err, art.ErrImageNotFound) &&
		!errors.Is(err, bio.ErrBioNotFound) &&
		!errors.Is(err, ErrArtworkNotFound) &&
		!errors.Is(err, ErrArtistNotFound) {
		log.Printf("Finding artist %d image on the internet error: %s\n", artistID, err)
	}

	if err := lib.saveArtistImageNotFound(artistID); err != nil {
		return nil, err
	}

	return nil, ErrArtworkNotFound
}

func (lib *LocalLibrary) artistImageFromDB(
	ctx context.Context,
	artistID int64,
) (io.ReadCloser, error) {
	var (
		buff     []byte
		unixTime int64
	)

	work := func(db *sql.DB) error {
		smt, err := db.PrepareContext(ctx, `
			SELECT
				image,
				updated_at
			FROM
				artists_images
			WHERE
				artist_id = ?
		`)
		if err != nil {
			log.Printf("could not prepare artist image sql statement: %s", err)
			return err
		}
		defer smt.Close()

		err = smt.QueryRowContext(ctx, artistID).Scan(&buff, &unixTime)
		if err == sql.ErrNoRows {
			return ErrArtworkNotFound
		} else if err != nil {
			log.Printf("error getting artist image from db: %s", err)
			return err
		}

		return nil
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		return nil, err
	}

	if len(buff) < 1 {
		if time.Now().Before(time.Unix(unixTime, 0).Add(notFoundCacheTTL)) {
			return nil, ErrCachedArtworkNotFound
		}
		return nil, ErrArtworkNotFound
	}

	return newBytesReadCloser(buff), nil
}

// artistImageFromInternet gets the artist biography and tries to download
// the images referenced in it. The first one which could actually be
// downloaded wins.
func (lib *LocalLibrary) artistImageFromInternet(
	ctx context.Context,
	artistID int64,
) (io.ReadCloser, error) {
	if lib.bioFetcher == nil || lib.artFinder == nil {
		return nil, ErrArtworkNotFound
	}

	artistName, err := lib.GetArtistName(ctx, artistID)
	if err != nil {
		return nil, err
	}

	artistBio, err := lib.bioFetcher.Fetch(ctx, artistName)
	if err != nil {
		return nil, err
	}

	for _, imageURL := range artistBio.ImageURLs {
		image, err := lib.artFinder.DownloadCover(ctx, imageURL)
		if err != nil {
			log.Printf("downloading artist image %s failed: %s", imageURL, err)
			continue
		}

		return newBytesReadCloser(image), nil
	}

	return nil, ErrArtworkNotFound
}

func (lib *LocalLibrary) saveArtistImage(
	artistID int64,
	image io.ReadCloser,
) (io.ReadCloser, error) {
	defer image.Close()

	buff, err := io.ReadAll(image)
	if err != nil {
		return nil, err
	}

	work := func(db *sql.DB) error {
		stmt, err := db.Prepare(`
				INSERT OR REPLACE INTO
					artists_images (artist_id, image, updated_at)
				VALUES
					(?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		_, err = stmt.Exec(artistID, buff, time.Now().Unix())
		return err
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Error executing save artist image query: %s", err)
		return nil, err
	}

	return newBytesReadCloser(buff), nil
}

func (lib *LocalLibrary) saveArtistImageNotFound(artistID int64) error {
	work := func(db *sql.DB) error {
		stmt, err := db.Prepare(`
				INSERT OR REPLACE INTO
					artists_images (artist_id, updated_at)
				VALUES
					(?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		_, err = stmt.Exec(artistID, time.Now().Unix())
		return err
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Error executing save artist image not found query: %s", err)
		return err
	}

	return nil
}

// SaveArtistImage implements the ArtistImageManager interface for the local
// library.
//
// It saves the image in `r` in the database. It will read up to 5MB of data
// from `r` and if this limit is reached, the image is considered too big
// and will not be saved in the db.
func (lib *LocalLibrary) SaveArtistImage(
	ctx context.Context,
	artistID int64,
	r io.Reader,
) error {
	return lib.saveImageFromReader(ctx, artistID, r, "artists_images",
		"artist_id", "image")
}

// RemoveArtistImage removes particular artist image from the database.
func (lib *LocalLibrary) RemoveArtistImage(ctx context.Context, artistID int64) error {
	return lib.saveArtistImageNotFound(artistID)
}

// ArtistBio returns the biography of an artist by its ID by asking the
// configured biography fetcher.
func (lib *LocalLibrary) ArtistBio(
	ctx context.Context,
	artistID int64,
) (bio.Biography, error) {
	if lib.bioFetcher == nil {
		return bio.Biography{}, bio.ErrBioNotFound
	}

	artistName, err := lib.GetArtistName(ctx, artistID)
	if err != nil {
		return bio.Biography{}, err
	}

	return lib.bioFetcher.Fetch(ctx, artistName)
}
