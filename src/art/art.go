package art

import (
	"context"
	"errors"
	"sync"
	"time"

	cca "gopkg.in/mineo/gocaa.v1"
)

// ErrImageNotFound is returned by the Get* functions when no suitable cover
// image was found anywhere.
var ErrImageNotFound = errors.New("image not found")

// ErrImageTooBig is returned when some image has been found but it is deemed
// too big for the server to handle.
var ErrImageTooBig = errors.New("image is too big")

// ErrNoSpotifyAuth signals that there are no Spotify API credentials in the
// configuration. Trying to search covers in Spotify is doomed from the
// get-go without them.
var ErrNoSpotifyAuth = errors.New("authentication with Spotify is not configured")

//counterfeiter:generate . Finder

// Finder defines a type which is capable of finding album cover art.
type Finder interface {
	// GetFrontImage returns the front album artwork for particular album
	// by an artist.
	GetFrontImage(ctx context.Context, artist, album string) ([]byte, error)

	// SearchCovers returns a ranked list of candidate cover images for
	// the query.
	SearchCovers(ctx context.Context, q CoverQuery) ([]CoverResult, error)

	// DownloadCover returns the raw bytes of a cover image previously
	// returned by SearchCovers.
	DownloadCover(ctx context.Context, imageURL string) ([]byte, error)
}

// CoverQuery describes what covers are searched for. At least one of the
// fields must be set.
type CoverQuery struct {
	Artist string
	Album  string
	Title  string
}

// CoverResult is a single cover image candidate found by a search.
type CoverResult struct {
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	ImageURL string `json:"image_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Client is a client for recovering artwork. It supports getting album
// front images from the Cover Art Archive and automatically throttles
// itself so that it does not make too many requests at once. It also
// supports searching the Spotify catalogue for cover images. It is safe
// for concurrent use.
//
// Getting images from the Cover Art Archive works in two steps:
//
// * Gets a list of mbids (aka release IDs) from the MusicBrainz API which
// are above MinScore.
//
// * Uses the mbids for fetching a cover art from the Cover Art Archive. The
// first release ID which has a cover art wins.
//
// Why a list of mbids? Because a certain album may have many records in
// MusicBrainz which correspond to different releases for this album.
// Generally all releases have the same cover art so any of them is
// accepted.
//
// Searching in Spotify is a single request against its search API but it
// needs an access token first. The token is acquired with the client
// credentials OAuth flow and is cached in the Client until it expires.
//
// It implements Finder.
type Client struct {
	sync.Mutex

	// MinScore is the minimal accepted score above which a release is
	// considered a match for the search in the MusicBrainz API. The API
	// returns a list of matches and every one of them comes with a "score"
	// metric in 0-100 scale which represents how good a match this result
	// is for the query. 100 means absolutely sure. By lowering this score
	// you may receive more images but some of them may be inaccurate.
	MinScore int

	// MinCoverSize is the minimal width and height in pixels for an image
	// from a Spotify search to be accepted as a cover candidate.
	MinCoverSize int

	delay     time.Duration
	delayer   *time.Timer
	useragent string
	caaClient CAAClient

	musicBrainzAPIHost string

	spotifyClientID     string
	spotifyClientSecret string
	spotifyAPIHost      string
	spotifyTokenURL     string

	spotifyToken       string
	spotifyTokenExpiry time.Time
}

// NewClient returns a fully configured Client.
//
// The kind people at MusicBrainz provide their API at no cost for everyone
// to use. For that reason they have kindly asked for all applications to
// throttle their usage as much as possible and do not exceed one request
// per second. So we are good citizens and throttle ourselves.
// More info: https://musicbrainz.org/doc/XML_Web_Service/Rate_Limiting
// For this reason the delayer and delay are defined here.
//
// The user agent is used for representing itself when contacting the
// MusicBrainz API. It is required so that they can use it for throttling
// and filtering out bad applications. The delay is used to throttle
// requests to the API. No more than one request per `delay` will be made.
//
// Spotify went a different way for the same goal. It requires every
// application to authenticate with the client ID and secret which one
// creates in the Spotify developer dashboard.
func NewClient(
	useragent string,
	delay time.Duration,
	spotifyClientID string,
	spotifyClientSecret string,
) *Client {
	return &Client{
		MinScore:            95,
		MinCoverSize:        300,
		useragent:           useragent,
		delay:               delay,
		delayer:             time.NewTimer(delay),
		caaClient:           cca.NewCAAClient(useragent),
		musicBrainzAPIHost:  "https://musicbrainz.org",
		spotifyClientID:     spotifyClientID,
		spotifyClientSecret: spotifyClientSecret,
		spotifyAPIHost:      "https://api.spotify.com/v1",
		spotifyTokenURL:     "https://accounts.spotify.com/api/token",
	}
}
