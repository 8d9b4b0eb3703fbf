package webserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// RatingHandler is a http.Handler which stores the user rating of a track.
type RatingHandler struct {
	ratings RatingSetter
}

// ServeHTTP is required by the http.Handler's interface.
func (rh RatingHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	writer.Header().Add("Content-Type", "application/json; charset=utf-8")

	vars := mux.Vars(req)
	id, err := strconv.ParseInt(vars["trackID"], 10, 64)
	if err != nil {
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"Bad request. Parsing trackID: %s.",
			err,
		)
		return
	}

	reqBody := struct {
		Rating uint8 `json:"rating"`
	}{}

	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(&reqBody); err != nil {
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"Error parsing JSON request: %s.",
			err,
		)
		return
	}

	if err := rh.ratings.SetTrackRating(req.Context(), id, reqBody.Rating); err != nil {
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"Storing rating: %s.",
			err,
		)
		return
	}

	writer.WriteHeader(http.StatusNoContent)
}

// NewRatingHandler returns a new track rating handler using the given
// rating setter.
func NewRatingHandler(ratings RatingSetter) *RatingHandler {
	return &RatingHandler{
		ratings: ratings,
	}
}
