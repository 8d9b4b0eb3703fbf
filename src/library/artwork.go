package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/calliopefm/calliope/src/art"
)

// FindAndSaveAlbumArtwork implements the ArtworkManager for the local
// library. It will return a previously saved into the database album
// artwork if any. If not it will try to find one in the album's directory
// or on the internet (assuming the art finder is configured). This function
// returns ReadCloser and the caller is responsible for freeing the used
// resources by calling Close().
//
// When artwork is found anywhere then it will be saved in the database for
// later retrieval.
func (lib *LocalLibrary) FindAndSaveAlbumArtwork(
	ctx context.Context,
	albumID int64,
	size ImageSize,
) (io.ReadCloser, error) {
	reader, err := lib.albumArtworkFromDB(ctx, albumID)
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

	reader, err = lib.albumArtworkFromFS(ctx, albumID)
	if err == nil {
		saved, err := lib.saveAlbumArtwork(albumID, reader)
		if err != nil {
			return nil, err
		}
		return lib.scaledImage(ctx, saved, size)
	} else if !errors.Is(err, ErrArtworkNotFound) {
		log.Printf("Finding album %d artwork in the file system error: %s\n", albumID, err)
	}

	reader, err = lib.albumArtworkFromInternet(ctx, albumID)
	if err == nil {
		saved, err := lib.saveAlbumArtwork(albumID, reader)
		if err != nil {
			return nil, err
		}
		return lib.scaledImage(ctx, saved, size)
	}

	if errors.Is(err, art.ErrNoSpotifyAuth) {
		// pass, don't do anything. No need for logs when this is a result
		// from the server's configuration.
	} else if !errors.Is(err, art.ErrImageNotFound) &&
		!errors.Is(err, ErrArtworkNotFound) &&
		!errors.Is(err, ErrAlbumNotFound) {
		log.Printf("Finding album %d artwork on the internet error: %s\n", albumID, err)
	}

	if err := lib.saveAlbumArtworkNotFound(albumID); err != nil {
		return nil, err
	}

	return nil, ErrArtworkNotFound
}

func (lib *LocalLibrary) albumArtworkFromDB(
	ctx context.Context,
	albumID int64,
) (io.ReadCloser, error) {
	var (
		buff     []byte
		unixTime int64
	)

	work := func(db *sql.DB) error {
		smt, err := db.PrepareContext(ctx, `
			SELECT
				artwork_cover,
				updated_at
			FROM
				albums_artworks
			WHERE
				album_id = ?
		`)
		if err != nil {
			log.Printf("could not prepare album artwork sql statement: %s", err)
			return err
		}
		defer smt.Close()

		err = smt.QueryRowContext(ctx, albumID).Scan(&buff, &unixTime)
		if err == sql.ErrNoRows {
			return ErrArtworkNotFound
		} else if err != nil {
			log.Printf("error getting album artwork from db: %s", err)
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

var imagesRegexp = regexp.MustCompile(`(?i).*\.(png|gif|jpeg|jpg)$`)

// albumArtworkFromFS looks for an image file in the directory of the
// album's tracks. Images named after the cover or the front of the album
// are preferred.
func (lib *LocalLibrary) albumArtworkFromFS(
	ctx context.Context,
	albumID int64,
) (io.ReadCloser, error) {
	albumPath, err := lib.GetAlbumFSPathByID(ctx, albumID)
	if err != nil {
		return nil, err
	}

	var possibleArtworks []string

	err = afero.Walk(lib.fs, albumPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if imagesRegexp.MatchString(path) {
			possibleArtworks = append(possibleArtworks, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(possibleArtworks) < 1 {
		return nil, ErrArtworkNotFound
	}

	var (
		selectedArtwork string
		score           int
	)

	for _, path := range possibleArtworks {
		pathScore := 5

		fileBase := strings.ToLower(filepath.Base(path))

		if strings.Contains(fileBase, "cover") || strings.Contains(fileBase, "front") {
			pathScore = 10
		}

		if strings.HasPrefix(fileBase, "cover.") || strings.HasPrefix(fileBase, "front.") {
			pathScore = 15
		}

		if strings.Contains(fileBase, "artwork") {
			pathScore = 8
		}

		if pathScore > score {
			selectedArtwork = path
			score = pathScore
		}
	}

	return lib.fs.Open(selectedArtwork)
}

// albumArtworkFromInternet asks the Cover Art Archive for the album front
// and falls back to a Spotify cover search when nothing was found there.
func (lib *LocalLibrary) albumArtworkFromInternet(
	ctx context.Context,
	albumID int64,
) (io.ReadCloser, error) {
	if lib.artFinder == nil {
		return nil, ErrArtworkNotFound
	}

	var (
		albumName  string
		artistName string
	)

	work := func(db *sql.DB) error {
		row, err := db.QueryContext(ctx, `
			SELECT
				al.name,
				at.name
			FROM
				albums al
					LEFT JOIN artists at ON at.id = al.artist_id
			WHERE
				al.id = ?
		`, albumID)
		if err != nil {
			return fmt.Errorf("query database: %w", err)
		}
		defer row.Close()

		if !row.Next() {
			return ErrAlbumNotFound
		}

		if err := row.Scan(&albumName, &artistName); err != nil {
			return fmt.Errorf("scanning db result: %w", err)
		}

		return nil
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		return nil, err
	}

	cover, err := lib.artFinder.GetFrontImage(ctx, artistName, albumName)
	if err == nil {
		return newBytesReadCloser(cover), nil
	}
	if !errors.Is(err, art.ErrImageNotFound) {
		return nil, err
	}

	// Nothing in the Cover Art Archive. Try the Spotify search.
	results, err := lib.artFinder.SearchCovers(ctx, art.CoverQuery{
		Artist: artistName,
		Album:  albumName,
	})
	if err != nil {
		return nil, err
	}
	if len(results) < 1 {
		return nil, ErrArtworkNotFound
	}

	cover, err = lib.artFinder.DownloadCover(ctx, results[0].ImageURL)
	if err != nil {
		return nil, err
	}

	return newBytesReadCloser(cover), nil
}

func (lib *LocalLibrary) saveAlbumArtwork(
	albumID int64,
	artwork io.ReadCloser,
) (io.ReadCloser, error) {
	defer artwork.Close()

	buff, err := io.ReadAll(artwork)
	if err != nil {
		return nil, err
	}

	work := func(db *sql.DB) error {
		stmt, err := db.Prepare(`
				INSERT OR REPLACE INTO
					albums_artworks (album_id, artwork_cover, updated_at)
				VALUES
					(?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		_, err = stmt.Exec(albumID, buff, time.Now().Unix())
		return err
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Error executing save album artwork query: %s", err)
		return nil, err
	}

	return newBytesReadCloser(buff), nil
}

func (lib *LocalLibrary) saveAlbumArtworkNotFound(albumID int64) error {
	work := func(db *sql.DB) error {
		stmt, err := db.Prepare(`
				INSERT OR REPLACE INTO
					albums_artworks (album_id, updated_at)
				VALUES
					(?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		_, err = stmt.Exec(albumID, time.Now().Unix())
		return err
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Error executing save album artwork not found query: %s", err)
		return err
	}

	return nil
}

// GetAlbumFSPathByID returns the directory in the file system where the
// tracks of this album live.
func (lib *LocalLibrary) GetAlbumFSPathByID(
	ctx context.Context,
	albumID int64,
) (string, error) {
	var trackPath string

	work := func(db *sql.DB) error {
		smt, err := db.PrepareContext(ctx, `
			SELECT
				fs_path
			FROM
				tracks
			WHERE
				album_id = ?
			LIMIT 1
		`)
		if err != nil {
			return err
		}
		defer smt.Close()

		err = smt.QueryRowContext(ctx, albumID).Scan(&trackPath)
		if err == sql.ErrNoRows {
			return ErrAlbumNotFound
		}
		return err
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		return "", err
	}

	return filepath.Dir(trackPath), nil
}

// SaveAlbumArtwork implements the ArtworkManager interface for the local
// library.
//
// It saves the artwork in `r` in the database. It will read up to 5MB of
// data from `r` and if this limit is reached, the artwork is considered too
// big and will not be saved in the db.
func (lib *LocalLibrary) SaveAlbumArtwork(
	ctx context.Context,
	albumID int64,
	r io.Reader,
) error {
	return lib.saveImageFromReader(ctx, albumID, r, "albums_artworks",
		"album_id", "artwork_cover")
}

// RemoveAlbumArtwork removes particular album artwork from the database.
// In reality it sets an empty one so that the "not found" record is fresh
// and the internet would not be probed immediately.
func (lib *LocalLibrary) RemoveAlbumArtwork(ctx context.Context, albumID int64) error {
	return lib.saveAlbumArtworkNotFound(albumID)
}

// saveImageFromReader stores an uploaded image in one of the image cache
// tables.
func (lib *LocalLibrary) saveImageFromReader(
	ctx context.Context,
	id int64,
	r io.Reader,
	table string,
	idColumn string,
	imageColumn string,
) error {
	lr := &io.LimitedReader{
		R: r,
		N: imageMaxSize,
	}

	buff, err := io.ReadAll(lr)
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading the image for storing in %s: %w", table, err)
	}

	if int64(len(buff)) >= imageMaxSize {
		return ErrArtworkTooBig
	}

	if len(buff) == 0 {
		return NewArtworkError("uploaded image is empty")
	}

	work := func(db *sql.DB) error {
		stmt, err := db.Prepare(fmt.Sprintf(`
			INSERT OR REPLACE INTO
				%s (%s, %s, updated_at)
			VALUES
				(?, ?, ?)
		`, table, idColumn, imageColumn))
		if err != nil {
			return err
		}
		defer stmt.Close()

		_, err = stmt.Exec(id, buff, time.Now().Unix())
		return err
	}
	return lib.executeDBJobAndWait(work)
}
