package webserver_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calliopefm/calliope/src/library"
)

// TestAlbumArtworkFind checks serving stored album artwork and the 404
// for albums with no artwork anywhere.
func TestAlbumArtworkFind(t *testing.T) {
	env := newTestEnv()
	env.artwork.images = map[int64][]byte{
		12: []byte("album-cover-bytes"),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/album/12/artwork", nil)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.Code)
	}
	if resp.Body.String() != "album-cover-bytes" {
		t.Errorf("wrong image served: %s", resp.Body.String())
	}
	if env.artwork.lastSize != library.OriginalImage {
		t.Errorf("expected the original image size to be requested")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/album/12/artwork?size=small", nil)
	resp = httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if env.artwork.lastSize != library.SmallImage {
		t.Errorf("the small size was not passed to the artwork manager")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/album/55/artwork", nil)
	resp = httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing artwork but got %d", resp.Code)
	}
}

// TestAlbumArtworkUpload checks storing artwork over the API.
func TestAlbumArtworkUpload(t *testing.T) {
	env := newTestEnv()

	body := bytes.NewBufferString("fresh-artwork")
	req := httptest.NewRequest(http.MethodPut, "/v1/album/3/artwork", body)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", resp.Code, resp.Body.String())
	}
	if string(env.artwork.images[3]) != "fresh-artwork" {
		t.Errorf("the uploaded artwork was not stored")
	}
}

// TestAlbumArtworkUploadTooBig checks the 413 response for big uploads.
func TestAlbumArtworkUploadTooBig(t *testing.T) {
	env := newTestEnv()
	env.artwork.saveErr = library.ErrArtworkTooBig

	body := bytes.NewBufferString("pretend this is 10MB of JPEG")
	req := httptest.NewRequest(http.MethodPut, "/v1/album/3/artwork", body)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 but got %d", resp.Code)
	}
}

// TestAlbumArtworkRemove checks removing stored artwork.
func TestAlbumArtworkRemove(t *testing.T) {
	env := newTestEnv()
	env.artwork.images = map[int64][]byte{9: []byte("doomed")}

	req := httptest.NewRequest(http.MethodDelete, "/v1/album/9/artwork", nil)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 but got %d", resp.Code)
	}
	if len(env.artwork.images) != 0 {
		t.Errorf("the artwork was not removed")
	}
}

// TestArtistImageEndpoints checks the artist image variants of the same
// operations.
func TestArtistImageEndpoints(t *testing.T) {
	env := newTestEnv()
	env.images.images = map[int64][]byte{4: []byte("artist-photo")}

	req := httptest.NewRequest(http.MethodGet, "/v1/artist/4/image?size=small", nil)
	resp := httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", resp.Code)
	}
	if resp.Body.String() != "artist-photo" {
		t.Errorf("wrong image served: %s", resp.Body.String())
	}
	if env.images.lastSize != library.SmallImage {
		t.Errorf("the small size was not passed to the image manager")
	}

	body := bytes.NewBufferString("new-photo")
	req = httptest.NewRequest(http.MethodPut, "/v1/artist/8/image", body)
	resp = httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/artist/8/image", nil)
	resp = httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 but got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/artist/8/image", nil)
	resp = httptest.NewRecorder()
	env.router().ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a removed image but got %d", resp.Code)
	}
}
