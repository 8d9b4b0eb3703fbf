package webserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calliopefm/calliope/src/library"
)

// TestBrowseHandlerArtists checks browsing through artists with paging.
func TestBrowseHandlerArtists(t *testing.T) {
	env := newTestEnv()
	env.browser.artists = []library.Artist{
		{ID: 1, Name: "Iron Maiden"},
		{ID: 2, Name: "AC/DC"},
	}
	env.browser.count = 12

	req := httptest.NewRequest(
		http.MethodGet,
		"/v1/browse?by=artist&page=2&per-page=2",
		nil,
	)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", resp.Code, resp.Body.String())
	}

	if env.browser.lastArgs.Page != 1 || env.browser.lastArgs.PerPage != 2 {
		t.Errorf("wrong args passed to the browser: %+v", env.browser.lastArgs)
	}

	var respBody struct {
		Data       []library.Artist `json:"data"`
		Next       string           `json:"next"`
		Previous   string           `json:"previous"`
		PagesCount int              `json:"pages_count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &respBody); err != nil {
		t.Fatalf("response was not valid JSON: %s", err)
	}

	if len(respBody.Data) != 2 {
		t.Errorf("wrong artists in response: %+v", respBody.Data)
	}
	if respBody.PagesCount != 6 {
		t.Errorf("wrong pages count: %d", respBody.PagesCount)
	}
	if respBody.Previous != "/v1/browse?by=artist&page=1&per-page=2" {
		t.Errorf("wrong previous page URI: %s", respBody.Previous)
	}
	if respBody.Next != "/v1/browse?by=artist&page=3&per-page=2" {
		t.Errorf("wrong next page URI: %s", respBody.Next)
	}
}

// TestBrowseHandlerOrdering checks the order and order-by parameters.
func TestBrowseHandlerOrdering(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(
		http.MethodGet,
		"/v1/browse?by=album&order=desc&order-by=id",
		nil,
	)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", resp.Code, resp.Body.String())
	}

	if env.browser.lastArgs.Order != library.OrderDesc {
		t.Errorf("descending order was not passed to the browser")
	}
	if env.browser.lastArgs.OrderBy != library.OrderByID {
		t.Errorf("ordering by ID was not passed to the browser")
	}
}

// TestBrowseHandlerBadRequests checks the different parameter validations.
func TestBrowseHandlerBadRequests(t *testing.T) {
	env := newTestEnv()
	router := env.router()

	badURIs := []string{
		"/v1/browse?by=fruit",
		"/v1/browse?page=parrot",
		"/v1/browse?per-page=0",
		"/v1/browse?page=-1",
		"/v1/browse?order=sideways",
		"/v1/browse?order-by=colour",
	}

	for _, uri := range badURIs {
		req := httptest.NewRequest(http.MethodGet, uri, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %s but got %d", uri, resp.Code)
		}
	}
}
