package webserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/calliopefm/calliope/src/bio"
	"github.com/calliopefm/calliope/src/library"
)

// ArtistBioHandler is a http.Handler which returns the biography of an
// artist in the collection.
type ArtistBioHandler struct {
	bioProvider BiographyProvider
}

// ServeHTTP is required by the http.Handler's interface.
func (abh ArtistBioHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	InternalErrorOnErrorHandler(writer, req, abh.find)
}

func (abh ArtistBioHandler) find(writer http.ResponseWriter, req *http.Request) error {
	writer.Header().Add("Content-Type", "application/json; charset=utf-8")

	vars := mux.Vars(req)
	id, err := strconv.ParseInt(vars["artistID"], 10, 64)
	if err != nil {
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"Bad request. Parsing artistID: %s.",
			err,
		)
		return nil
	}

	biography, err := abh.bioProvider.ArtistBio(req.Context(), id)
	if errors.Is(err, bio.ErrBioNotFound) ||
		errors.Is(err, library.ErrArtistNotFound) {
		respondWithJSONError(
			writer,
			http.StatusNotFound,
			"no biography found for artist %d",
			id,
		)
		return nil
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(writer)
	return enc.Encode(struct {
		Title     string   `json:"title"`
		Bio       string   `json:"bio"`
		ImageURLs []string `json:"image_urls,omitempty"`
	}{
		Title:     biography.Title,
		Bio:       biography.Article,
		ImageURLs: biography.ImageURLs,
	})
}

// NewArtistBioHandler returns a new artist biography handler using the
// given biography provider.
func NewArtistBioHandler(bioProvider BiographyProvider) *ArtistBioHandler {
	return &ArtistBioHandler{
		bioProvider: bioProvider,
	}
}
