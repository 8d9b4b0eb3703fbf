package webserver_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/calliopefm/calliope/src/art"
	"github.com/calliopefm/calliope/src/bio"
	"github.com/calliopefm/calliope/src/config"
	"github.com/calliopefm/calliope/src/library"
	"github.com/calliopefm/calliope/src/webserver"
)

// fakeLibrary implements library.Library for handler tests. It returns the
// canned search results and records the arguments of the last search.
type fakeLibrary struct {
	searchResults []library.SearchResult
	lastSearch    library.SearchArgs
	filePath      string
	artistName    string
}

func (f *fakeLibrary) AddLibraryPath(string) {}

func (f *fakeLibrary) Search(
	_ context.Context,
	args library.SearchArgs,
) []library.SearchResult {
	f.lastSearch = args
	return f.searchResults
}

func (f *fakeLibrary) GetFilePath(_ context.Context, _ int64) string {
	return f.filePath
}

func (f *fakeLibrary) GetArtistName(_ context.Context, _ int64) (string, error) {
	if f.artistName == "" {
		return "", library.ErrArtistNotFound
	}
	return f.artistName, nil
}

func (f *fakeLibrary) Scan()                   {}
func (f *fakeLibrary) AddMedia(_ string) error { return nil }
func (f *fakeLibrary) Truncate() error         { return nil }
func (f *fakeLibrary) Close()                  {}

// fakeBrowser implements library.Browser.
type fakeBrowser struct {
	artists  []library.Artist
	albums   []library.Album
	count    int
	lastArgs library.BrowseArgs
}

func (f *fakeBrowser) BrowseArtists(args library.BrowseArgs) ([]library.Artist, int) {
	f.lastArgs = args
	return f.artists, f.count
}

func (f *fakeBrowser) BrowseAlbums(args library.BrowseArgs) ([]library.Album, int) {
	f.lastArgs = args
	return f.albums, f.count
}

// fakeArtworkManager implements library.ArtworkManager over an in-memory
// map of album images.
type fakeArtworkManager struct {
	images   map[int64][]byte
	saveErr  error
	lastSize library.ImageSize
	removed  []int64
}

func (f *fakeArtworkManager) FindAndSaveAlbumArtwork(
	_ context.Context,
	albumID int64,
	size library.ImageSize,
) (io.ReadCloser, error) {
	f.lastSize = size
	img, ok := f.images[albumID]
	if !ok {
		return nil, library.ErrArtworkNotFound
	}
	return io.NopCloser(bytes.NewReader(img)), nil
}

func (f *fakeArtworkManager) SaveAlbumArtwork(
	_ context.Context,
	albumID int64,
	r io.Reader,
) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	img, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if f.images == nil {
		f.images = map[int64][]byte{}
	}
	f.images[albumID] = img
	return nil
}

func (f *fakeArtworkManager) RemoveAlbumArtwork(_ context.Context, albumID int64) error {
	f.removed = append(f.removed, albumID)
	delete(f.images, albumID)
	return nil
}

// fakeImageManager implements library.ArtistImageManager the same way.
type fakeImageManager struct {
	images   map[int64][]byte
	lastSize library.ImageSize
}

func (f *fakeImageManager) FindAndSaveArtistImage(
	_ context.Context,
	artistID int64,
	size library.ImageSize,
) (io.ReadCloser, error) {
	f.lastSize = size
	img, ok := f.images[artistID]
	if !ok {
		return nil, library.ErrArtworkNotFound
	}
	return io.NopCloser(bytes.NewReader(img)), nil
}

func (f *fakeImageManager) SaveArtistImage(
	_ context.Context,
	artistID int64,
	r io.Reader,
) error {
	img, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if f.images == nil {
		f.images = map[int64][]byte{}
	}
	f.images[artistID] = img
	return nil
}

func (f *fakeImageManager) RemoveArtistImage(_ context.Context, artistID int64) error {
	delete(f.images, artistID)
	return nil
}

// fakeBioProvider implements webserver.BiographyProvider.
type fakeBioProvider struct {
	bios map[int64]bio.Biography
}

func (f *fakeBioProvider) ArtistBio(
	_ context.Context,
	artistID int64,
) (bio.Biography, error) {
	biography, ok := f.bios[artistID]
	if !ok {
		return bio.Biography{}, bio.ErrBioNotFound
	}
	return biography, nil
}

// fakeRatingSetter implements webserver.RatingSetter.
type fakeRatingSetter struct {
	ratings map[int64]uint8
}

func (f *fakeRatingSetter) SetTrackRating(
	_ context.Context,
	mediaID int64,
	rating uint8,
) error {
	if rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	if f.ratings == nil {
		f.ratings = map[int64]uint8{}
	}
	f.ratings[mediaID] = rating
	return nil
}

// fakeArtFinder implements art.Finder.
type fakeArtFinder struct {
	covers    []art.CoverResult
	coversErr error
	lastQuery art.CoverQuery
}

func (f *fakeArtFinder) GetFrontImage(
	_ context.Context,
	artist, album string,
) ([]byte, error) {
	return nil, art.ErrImageNotFound
}

func (f *fakeArtFinder) SearchCovers(
	_ context.Context,
	q art.CoverQuery,
) ([]art.CoverResult, error) {
	f.lastQuery = q
	if f.coversErr != nil {
		return nil, f.coversErr
	}
	return f.covers, nil
}

func (f *fakeArtFinder) DownloadCover(
	_ context.Context,
	imageURL string,
) ([]byte, error) {
	return nil, art.ErrImageNotFound
}

// testEnv bundles all the fakes a router needs.
type testEnv struct {
	lib       *fakeLibrary
	browser   *fakeBrowser
	artwork   *fakeArtworkManager
	images    *fakeImageManager
	bios      *fakeBioProvider
	ratings   *fakeRatingSetter
	artFinder *fakeArtFinder
	cfg       config.Config
}

func newTestEnv() *testEnv {
	return &testEnv{
		lib:       &fakeLibrary{},
		browser:   &fakeBrowser{},
		artwork:   &fakeArtworkManager{},
		images:    &fakeImageManager{},
		bios:      &fakeBioProvider{},
		ratings:   &fakeRatingSetter{},
		artFinder: &fakeArtFinder{},
		cfg: config.Config{
			Authenticate: config.Auth{
				User:     "test-user",
				Password: "test-pass",
				Secret:   "test-secret",
			},
		},
	}
}

// router returns the full API surface routed over the fakes.
func (env *testEnv) router() http.Handler {
	return webserver.NewRouter(
		env.cfg,
		env.lib,
		env.browser,
		env.artwork,
		env.images,
		env.bios,
		env.ratings,
		env.artFinder,
	)
}
