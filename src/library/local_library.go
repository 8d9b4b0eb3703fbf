package library

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/howeyc/fsnotify"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"

	"github.com/calliopefm/calliope/src/art"
	"github.com/calliopefm/calliope/src/bio"
	"github.com/calliopefm/calliope/src/scaler"
)

// LocalLibrary implements the Library interface. Will represent files found
// on the local storage.
type LocalLibrary struct {
	// The location of the library's database.
	database string

	// Filesystem locations which contain the library's media files.
	paths []string

	db *sql.DB

	// Used to say "good bye" to the database worker and the watcher
	// goroutines.
	ctx           context.Context
	ctxCancelFunc context.CancelFunc

	// The media channel which the scanning goroutines use for sending
	// found files to the database writer.
	mediaChan chan string

	// A channel in which DatabaseExecutables are sent for sequential
	// execution against the database.
	dbExecutes chan DatabaseExecutable

	walkWG sync.WaitGroup
	scanWG sync.WaitGroup

	// The file system on which the library paths live. An abstraction
	// over the file system is used so that scanning may be tested with an
	// in-memory fs.
	fs afero.Fs

	watch           *fsnotify.Watcher
	watchClosedChan chan bool

	artFinder   art.Finder
	bioFetcher  bio.Fetcher
	imageScaler *scaler.Scaler

	// Used to rate limit how many concurrent artwork resolution jobs may
	// go out to the internet.
	artworkSem chan struct{}

	// ScanConfig alters how the filesystem walks behave during scanning.
	ScanConfig ScanConfig

	// Set to true when the runtime is in testing mode and all scanning
	// delays should be skipped.
	fastScan bool
}

// ScanConfig describes how eager the initial library scan should be.
type ScanConfig struct {
	// InitialWait is how long to wait before the initial scan is started.
	InitialWait time.Duration

	// FilesPerOperation is the number of files scanned between every
	// SleepPerOperation pause. Zero disables pausing.
	FilesPerOperation int64

	// SleepPerOperation is how long the scan sleeps after
	// FilesPerOperation files.
	SleepPerOperation time.Duration
}

// Close closes the database connection, the filesystem watcher and stops
// the database worker. It is safe to call it as many times as you want.
func (lib *LocalLibrary) Close() {
	lib.ctxCancelFunc()
	lib.stopWatcher()

	if lib.db != nil {
		lib.db.Close()
		lib.db = nil
	}
}

// AddLibraryPath adds a directory to the list of directories scanned for
// media files.
func (lib *LocalLibrary) AddLibraryPath(path string) {
	if _, err := lib.fs.Stat(path); err != nil {
		log.Printf("error adding library path: %s", err)
		return
	}

	lib.paths = append(lib.paths, path)
}

// Search implements the Library interface. Every token of the search query
// of the form "column:value" becomes a WHERE clause against this column,
// honouring any leading comparison operator in the value. All other tokens
// are matched against the track title, album and artist names.
func (lib *LocalLibrary) Search(ctx context.Context, args SearchArgs) []SearchResult {
	var output []SearchResult

	cq := NewCollectionQuery(args.Filter)
	addSearchTerms(cq, args.Query)
	cq.SetOrderBy("at.name, al.name, t.number")

	work := func(db *sql.DB) error {
		rows, err := cq.Query(ctx, db)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var res SearchResult
			err := rows.Scan(&res.ID, &res.Title, &res.AlbumID, &res.Album,
				&res.ArtistID, &res.Artist, &res.AlbumArtist,
				&res.TrackNumber, &res.Year, &res.Genre, &res.Rating)
			if err != nil {
				return err
			}
			output = append(output, res)
		}

		return rows.Err()
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Search query not successful: %s", err)
	}

	return output
}

// addSearchTerms converts a search string into WHERE clauses of a collection
// query.
func addSearchTerms(cq *CollectionQuery, search string) {
	for _, token := range strings.Fields(search) {
		column, value, found := strings.Cut(token, ":")
		if !found || !IsTrackColumn(column) {
			// Tokens with a colon which do not name a track column are
			// matched as free text with the colon removed.
			freeText := strings.ReplaceAll(token, ":", " ")
			freeText = strings.TrimSpace(freeText)
			if freeText == "" {
				continue
			}

			like := "%" + freeText + "%"
			cq.addRawWhere(
				"(t.name LIKE ? OR al.name LIKE ? OR at.name LIKE ?)",
				like, like, like,
			)
			continue
		}

		op, value := RemoveSQLOperator(value)
		column = strings.ToLower(column)

		switch column {
		case "rating":
			cq.AddWhereRating(value, op)
		case "artist":
			if op == "=" {
				cq.AddWhereArtist(value)
			} else {
				cq.AddWhere(column, value, op)
			}
		case "year", "track":
			intVal, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			cq.AddWhere(column, intVal, op)
		default:
			cq.AddWhere(column, value, op)
		}
	}
}

// GetFilePath returns the filesystem path for a file specified by its ID.
func (lib *LocalLibrary) GetFilePath(ctx context.Context, ID int64) string {
	var filePath string

	work := func(db *sql.DB) error {
		smt, err := db.PrepareContext(ctx, `
			SELECT
				fs_path
			FROM
				tracks
			WHERE
				id = ?
		`)
		if err != nil {
			log.Printf("Error getting file path: %s", err)
			return nil
		}
		defer smt.Close()

		err = smt.QueryRowContext(ctx, ID).Scan(&filePath)
		if err != nil {
			log.Printf("Error getting file path: %s", err)
		}

		return nil
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Error executing get file path query: %s", err)
	}

	return filePath
}

// GetArtistName returns the name of the artist with this ID. Returns
// ErrArtistNotFound when there is no such artist in the library.
func (lib *LocalLibrary) GetArtistName(ctx context.Context, artistID int64) (string, error) {
	var artistName string

	work := func(db *sql.DB) error {
		row, err := db.QueryContext(ctx, `
			SELECT
				name
			FROM
				artists
			WHERE
				id = ?
		`, artistID)
		if err != nil {
			return fmt.Errorf("query database: %w", err)
		}
		defer row.Close()

		if !row.Next() {
			return ErrArtistNotFound
		}

		if err := row.Scan(&artistName); err != nil {
			return fmt.Errorf("scanning db result: %w", err)
		}

		return nil
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		return "", err
	}

	return artistName, nil
}

// AddMedia adds a file specified by its filesystem name to the library.
// Will create the needed Artist, Album if necessary.
func (lib *LocalLibrary) AddMedia(filename string) error {
	if _, err := lib.fs.Stat(filename); err != nil {
		return err
	}

	file, err := readMediaFile(lib.fs, filename)
	if err != nil {
		return fmt.Errorf("parsing %s failed: %w", filename, err)
	}

	return lib.insertMediaIntoDatabase(file, filename)
}

// insertMediaIntoDatabase accepts an already parsed media info object and a
// filesystem path for the media file and inserts it into the library
// database.
func (lib *LocalLibrary) insertMediaIntoDatabase(file MediaFile, filePath string) error {
	return lib.executeDBJobAndWait(func(db *sql.DB) error {
		artistID, err := lib.setArtistID(db, file.Artist())
		if err != nil {
			return err
		}

		albumArtist := file.AlbumArtist()
		albumArtistID := artistID
		if albumArtist != "" && albumArtist != file.Artist() {
			albumArtistID, err = lib.setArtistID(db, albumArtist)
			if err != nil {
				return err
			}
		}

		albumID, err := lib.setAlbumID(db, file.Album(), albumArtistID)
		if err != nil {
			return err
		}

		if _, err := lib.setTrackID(db, file, filePath, artistID, albumID); err != nil {
			return err
		}

		return nil
	})
}

// setArtistID returns the ID for this artist. Inserts a new artist in the
// database when it is new to the library.
func (lib *LocalLibrary) setArtistID(db *sql.DB, artist string) (int64, error) {
	if len(artist) < 1 {
		artist = UnknownLabel
	}

	var id int64
	err := db.QueryRow(`
		SELECT
			id
		FROM
			artists
		WHERE
			name = ?
	`, artist).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	if _, err := db.Exec(`
		INSERT INTO
			artists (name)
		VALUES
			(?)
	`, artist); err != nil {
		return 0, err
	}

	return lastInsertID(db)
}

// setAlbumID returns the ID for this artist's album. Inserts a new album in
// the database when it is new to the library. Albums with the same name but
// by different artists need to have separate IDs hence the artistID
// parameter.
func (lib *LocalLibrary) setAlbumID(db *sql.DB, album string, artistID int64) (int64, error) {
	if len(album) < 1 {
		album = UnknownLabel
	}

	var id int64
	err := db.QueryRow(`
		SELECT
			id
		FROM
			albums
		WHERE
			name = ? AND
			artist_id = ?
	`, album, artistID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	if _, err := db.Exec(`
		INSERT INTO
			albums (name, artist_id)
		VALUES
			(?, ?)
	`, album, artistID); err != nil {
		return 0, err
	}

	return lastInsertID(db)
}

// setTrackID inserts this media file in the tracks table or updates the
// already present row for its filesystem path.
func (lib *LocalLibrary) setTrackID(
	db *sql.DB,
	file MediaFile,
	filePath string,
	artistID int64,
	albumID int64,
) (int64, error) {
	title := file.Title()
	if len(title) < 1 {
		title = UnknownLabel
	}

	compilation := 0
	if file.Compilation() {
		compilation = 1
	}

	if _, err := db.Exec(`
		INSERT INTO
			tracks (name, album_id, artist_id, album_artist, fs_path,
				number, year, genre, compilation, created_at, unavailable)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (fs_path) DO UPDATE SET
			name = ?,
			album_id = ?,
			artist_id = ?,
			album_artist = ?,
			number = ?,
			year = ?,
			genre = ?,
			compilation = ?,
			unavailable = 0
	`,
		title, albumID, artistID, file.AlbumArtist(), filePath,
		file.Track(), file.Year(), file.Genre(), compilation,
		time.Now().Unix(),

		title, albumID, artistID, file.AlbumArtist(),
		file.Track(), file.Year(), file.Genre(), compilation,
	); err != nil {
		return 0, err
	}

	return lastInsertID(db)
}

// removeFile removes a file from the library database. Should the file be
// found again by a scan it will be added anew.
func (lib *LocalLibrary) removeFile(filePath string) {
	work := func(db *sql.DB) error {
		_, err := db.Exec(`
			UPDATE
				tracks
			SET
				unavailable = 1
			WHERE
				fs_path = ?
		`, filePath)
		return err
	}
	if err := lib.executeDBJob(work); err != nil {
		log.Printf("Error removing %s: %s", filePath, err)
	}
}

// removeDirectory removes all tracks which were in this directory from the
// library database.
func (lib *LocalLibrary) removeDirectory(dirPath string) {
	// Adding slash at the end to make sure we are always removing paths
	// in that directory and not only paths which start with its name.
	likePath := strings.TrimSuffix(dirPath, "/") + "/%"

	work := func(db *sql.DB) error {
		_, err := db.Exec(`
			UPDATE
				tracks
			SET
				unavailable = 1
			WHERE
				fs_path LIKE ?
		`, likePath)
		return err
	}
	if err := lib.executeDBJob(work); err != nil {
		log.Printf("Error removing directory %s: %s", dirPath, err)
	}
}

// Truncate closes the library and removes its database file.
func (lib *LocalLibrary) Truncate() error {
	lib.Close()
	return lib.fs.Remove(lib.database)
}

// SetArtFinder sets the client which finds album artwork and downloads
// remote cover images.
func (lib *LocalLibrary) SetArtFinder(caf art.Finder) {
	lib.artFinder = caf
}

// SetBioFetcher sets the client which finds artist biographies and artist
// image URLs on the internet.
func (lib *LocalLibrary) SetBioFetcher(bf bio.Fetcher) {
	lib.bioFetcher = bf
}

// SetScaler sets the image scaler used for resizing artwork when a small
// image size is requested.
func (lib *LocalLibrary) SetScaler(imageScaler *scaler.Scaler) {
	lib.imageScaler = imageScaler
}

// Initialize should be run once every time a library is created. It
// applies the database migrations if necessary.
func (lib *LocalLibrary) Initialize() error {
	if lib.db == nil {
		return fmt.Errorf("library is not opened, call its NewLocalLibrary first")
	}

	return lib.applyMigrations()
}

// NewLocalLibrary returns a new LocalLibrary which will use for database
// the file specified by databasePath. Also creates the database connection
// so you do not need to worry about that. It accepts the global program
// context and the filesystem on which the library paths live.
func NewLocalLibrary(
	ctx context.Context,
	databasePath string,
	appfs afero.Fs,
) (*LocalLibrary, error) {
	lib := &LocalLibrary{
		database: databasePath,
		fs:       appfs,
	}

	lib.ctx, lib.ctxCancelFunc = context.WithCancel(ctx)

	var err error
	lib.db, err = sql.Open("sqlite3", lib.database)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go lib.databaseWorker(&wg)
	wg.Wait()

	lib.artworkSem = make(chan struct{}, 10)

	return lib, nil
}
