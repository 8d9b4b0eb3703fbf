package webserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calliopefm/calliope/src/art"
)

// CoversSearchHandler is a http.Handler which searches the streaming
// service catalogue for album cover candidates.
type CoversSearchHandler struct {
	artFinder art.Finder
}

// ServeHTTP is required by the http.Handler's interface.
func (csh CoversSearchHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	InternalErrorOnErrorHandler(writer, req, csh.search)
}

func (csh CoversSearchHandler) search(
	writer http.ResponseWriter,
	req *http.Request,
) error {
	writer.Header().Add("Content-Type", "application/json; charset=utf-8")

	if err := req.ParseForm(); err != nil {
		respondWithJSONError(writer, http.StatusBadRequest, "%s", err)
		return nil
	}

	query := art.CoverQuery{
		Artist: req.Form.Get("artist"),
		Album:  req.Form.Get("album"),
		Title:  req.Form.Get("title"),
	}

	covers, err := csh.artFinder.SearchCovers(req.Context(), query)
	if errors.Is(err, art.ErrEmptySearch) {
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"At least one of 'artist', 'album' or 'title' must be set.",
		)
		return nil
	}
	if errors.Is(err, art.ErrNoSpotifyAuth) {
		respondWithJSONError(
			writer,
			http.StatusServiceUnavailable,
			"Cover search is not configured on this server.",
		)
		return nil
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(writer)
	return enc.Encode(struct {
		Covers []art.CoverResult `json:"covers"`
	}{
		Covers: covers,
	})
}

// NewCoversSearchHandler returns a new covers search handler using the
// given artwork finder.
func NewCoversSearchHandler(artFinder art.Finder) *CoversSearchHandler {
	return &CoversSearchHandler{
		artFinder: artFinder,
	}
}
