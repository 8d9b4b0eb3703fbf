package webserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calliopefm/calliope/src/art"
)

// TestCoversSearchHandler checks translating the query parameters into a
// cover search and returning the candidates.
func TestCoversSearchHandler(t *testing.T) {
	env := newTestEnv()
	env.artFinder.covers = []art.CoverResult{
		{
			Artist:   "Iron Maiden",
			Album:    "Killers",
			ImageURL: "https://images.example.com/killers.jpg",
			Width:    640,
			Height:   640,
		},
	}

	req := httptest.NewRequest(
		http.MethodGet,
		"/v1/covers/search?artist=iron+maiden&album=killers",
		nil,
	)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", resp.Code, resp.Body.String())
	}

	if env.artFinder.lastQuery.Artist != "iron maiden" ||
		env.artFinder.lastQuery.Album != "killers" {
		t.Errorf("wrong query passed to the finder: %+v", env.artFinder.lastQuery)
	}

	var respBody struct {
		Covers []art.CoverResult `json:"covers"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &respBody); err != nil {
		t.Fatalf("response was not valid JSON: %s", err)
	}
	if len(respBody.Covers) != 1 ||
		respBody.Covers[0].ImageURL != "https://images.example.com/killers.jpg" {
		t.Errorf("wrong covers in response: %+v", respBody.Covers)
	}
}

// TestCoversSearchHandlerErrors maps the finder errors to HTTP statuses.
func TestCoversSearchHandlerErrors(t *testing.T) {
	env := newTestEnv()
	env.artFinder.coversErr = art.ErrEmptySearch

	req := httptest.NewRequest(http.MethodGet, "/v1/covers/search", nil)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty search but got %d", resp.Code)
	}

	env.artFinder.coversErr = art.ErrNoSpotifyAuth

	req = httptest.NewRequest(http.MethodGet, "/v1/covers/search?artist=abba", nil)
	resp = httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without Spotify credentials but got %d", resp.Code)
	}
}
