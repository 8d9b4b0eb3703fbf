package art

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	spotifySearchEndpoint = "%s/search"

	// spotifySearchLimit is the number of items requested from the Spotify
	// search API. Every item may contribute more than one image to the
	// results since every album comes with images in several sizes.
	spotifySearchLimit = 10
)

// ErrEmptySearch is returned by SearchCovers when there is nothing to
// search for in the query.
var ErrEmptySearch = errors.New("empty cover search query")

// SearchCovers searches the Spotify catalogue for cover images matching the
// query. Albums are searched when an album name is present. When only a
// track title is known the track search is used and covers come from the
// albums of the matched tracks. Results are returned in the API order with
// images smaller than MinCoverSize removed.
func (c *Client) SearchCovers(
	ctx context.Context,
	q CoverQuery,
) ([]CoverResult, error) {
	if c.spotifyClientID == "" || c.spotifyClientSecret == "" {
		return nil, ErrNoSpotifyAuth
	}

	if q.Artist == "" && q.Album == "" && q.Title == "" {
		return nil, ErrEmptySearch
	}

	var searchType, extract string
	query := q.Artist
	if q.Album == "" && q.Title != "" {
		searchType = "track"
		extract = "tracks"
		if query != "" {
			query += " "
		}
		query += q.Title
	} else {
		searchType = "album"
		extract = "albums"
		if q.Album != "" {
			if query != "" {
				query += " "
			}
			query += q.Album
		}
	}

	token, err := c.getSpotifyToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify authentication: %w", err)
	}

	endpointURL := fmt.Sprintf(spotifySearchEndpoint, c.spotifyAPIHost)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Spotify search req: %w", err)
	}

	params := req.URL.Query()
	params.Set("q", query)
	params.Set("type", searchType)
	params.Set("limit", fmt.Sprintf("%d", spotifySearchLimit))
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", c.useragent)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to the Spotify API failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			// The cached token is no good any more. Drop it so that the
			// next search starts with a fresh one.
			c.deauthenticateSpotify()
		}
		return nil, spotifyAPIError(resp)
	}

	var root spSearchResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding Spotify search response: %w", err)
	}

	var page *spItemsPage
	switch extract {
	case "tracks":
		page = root.Tracks
	case "albums":
		page = root.Albums
	}
	if page == nil {
		return nil, fmt.Errorf("Spotify response is missing the %s object", extract)
	}

	var results []CoverResult
	for _, item := range page.Items {
		album := item.Album
		if album == nil {
			// Album search results are albums themselves.
			album = &item.spAlbum
		}

		var artist string
		if len(album.Artists) > 0 {
			artist = album.Artists[0].Name
		}

		for _, image := range album.Images {
			if image.URL == "" {
				continue
			}
			if image.Width < c.MinCoverSize || image.Height < c.MinCoverSize {
				continue
			}

			results = append(results, CoverResult{
				Artist:   artist,
				Album:    album.Name,
				ImageURL: image.URL,
				Width:    image.Width,
				Height:   image.Height,
			})
		}
	}

	return results, nil
}

// DownloadCover gets the actual image bytes for a cover URL returned by
// SearchCovers.
func (c *Client) DownloadCover(ctx context.Context, imageURL string) ([]byte, error) {
	imgReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf(
			"malformed URL returned by the Spotify API (%s): %w",
			imageURL,
			err,
		)
	}
	imgReq.Header.Set("User-Agent", c.useragent)

	imgResp, err := http.DefaultClient.Do(imgReq)
	if err != nil {
		return nil, fmt.Errorf("request for cover image failed: %w", err)
	}
	defer imgResp.Body.Close()

	if imgResp.StatusCode != http.StatusOK {
		return nil, ErrImageNotFound
	}

	const imageLimitSize = 1024 * 1024 * 2
	imgBytes, err := io.ReadAll(io.LimitReader(imgResp.Body, imageLimitSize))
	if (err == nil || errors.Is(err, io.EOF)) && len(imgBytes) == imageLimitSize {
		return nil, ErrImageTooBig
	}
	if err != nil {
		return nil, fmt.Errorf("getting cover image failed: %w", err)
	}

	return imgBytes, nil
}

// getSpotifyToken returns a valid Spotify access token. A cached one is
// used while it has not expired. Otherwise a new one is requested with the
// client credentials flow.
func (c *Client) getSpotifyToken(ctx context.Context) (string, error) {
	c.Lock()
	defer c.Unlock()

	if c.spotifyToken != "" && time.Now().Before(c.spotifyTokenExpiry) {
		return c.spotifyToken, nil
	}

	data := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.spotifyTokenURL,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("error creating Spotify token req: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.useragent)
	req.SetBasicAuth(c.spotifyClientID, c.spotifyClientSecret)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Spotify token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", spotifyAPIError(resp)
	}

	var tokenResp spTokenResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding Spotify token response: %w", err)
	}

	c.spotifyToken = tokenResp.AccessToken

	// Refresh a bit before the actual expiry to avoid using a token which
	// dies mid-request.
	c.spotifyTokenExpiry = time.Now().Add(
		time.Duration(tokenResp.ExpiresIn-60) * time.Second,
	)

	return c.spotifyToken, nil
}

func (c *Client) deauthenticateSpotify() {
	c.Lock()
	defer c.Unlock()

	c.spotifyToken = ""
	c.spotifyTokenExpiry = time.Time{}
}

// spotifyAPIError creates an error from a non-200 Spotify response. The API
// returns a JSON object with a message and status on errors which is far
// more telling than the HTTP code alone.
func spotifyAPIError(resp *http.Response) error {
	var apiErr spErrorResponse

	dec := json.NewDecoder(io.LimitReader(resp.Body, 4*1024))
	if err := dec.Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf(
			"Spotify API error: %s (%d)",
			apiErr.Error.Message,
			apiErr.Error.Status,
		)
	}

	return fmt.Errorf("Spotify API returned HTTP %d", resp.StatusCode)
}

// The following are structures only used to decode the JSON responses from
// the Spotify API. And only the stuff we are interested in and nothing
// more.
type spTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type spErrorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

type spSearchResponse struct {
	Albums *spItemsPage `json:"albums"`
	Tracks *spItemsPage `json:"tracks"`
}

type spItemsPage struct {
	Items []spItem `json:"items"`
}

// spItem is either an album (for album searches) or a track with an album
// object inside it (for track searches).
type spItem struct {
	spAlbum
	Album *spAlbum `json:"album"`
}

type spAlbum struct {
	Name    string     `json:"name"`
	Artists []spArtist `json:"artists"`
	Images  []spImage  `json:"images"`
}

type spArtist struct {
	Name string `json:"name"`
}

type spImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
