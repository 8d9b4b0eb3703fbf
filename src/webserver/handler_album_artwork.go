package webserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/calliopefm/calliope/src/library"
)

// AlbumArtworkHandler is a http.Handler which will find and serve the
// artwork of a particular album.
type AlbumArtworkHandler struct {
	artworkManager library.ArtworkManager
}

// ServeHTTP is required by the http.Handler's interface.
func (aah AlbumArtworkHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	idString, ok := vars["albumID"]
	if !ok {
		http.NotFoundHandler().ServeHTTP(writer, req)
		return
	}

	id, err := strconv.ParseInt(idString, 10, 64)
	if err != nil {
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"Bad request. Parsing albumID: %s.",
			err,
		)
		return
	}

	switch req.Method {
	case http.MethodDelete:
		err = aah.remove(writer, req, id)
	case http.MethodPut:
		err = aah.upload(writer, req, id)
	default:
		err = aah.find(writer, req, id)
	}

	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		if _, err := writer.Write([]byte(err.Error())); err != nil {
			log.Printf("error writing body in AlbumArtworkHandler: %s", err)
		}
	}
}

// Actually searches through the library for the artwork of an album and
// serves it as a raw image.
func (aah AlbumArtworkHandler) find(
	writer http.ResponseWriter,
	req *http.Request,
	id int64,
) error {
	ctx, cancel := context.WithTimeout(req.Context(), 5*time.Minute)
	defer cancel()

	imgReader, err := aah.artworkManager.FindAndSaveAlbumArtwork(
		ctx, id, imageSizeFromRequest(req),
	)

	if errors.Is(err, library.ErrArtworkNotFound) || os.IsNotExist(err) {
		respondWithJSONError(writer, http.StatusNotFound, "404 album artwork not found")
		return nil
	}

	if err != nil {
		log.Printf("Error finding album %d artwork: %s\n", id, err)
		return err
	}

	defer imgReader.Close()

	writer.Header().Set("Cache-Control", "max-age=604800")
	_, err = io.Copy(writer, imgReader)

	if err != nil {
		log.Printf("error sending HTTP data for artwork %d: %s", id, err)
	}

	return nil
}

func (aah AlbumArtworkHandler) remove(
	writer http.ResponseWriter,
	req *http.Request,
	id int64,
) error {
	if err := aah.artworkManager.RemoveAlbumArtwork(req.Context(), id); err != nil {
		return err
	}

	writer.WriteHeader(http.StatusNoContent)
	return nil
}

func (aah AlbumArtworkHandler) upload(
	writer http.ResponseWriter,
	req *http.Request,
	id int64,
) error {
	err := aah.artworkManager.SaveAlbumArtwork(req.Context(), id, req.Body)

	var artworkErr *library.ArtworkError
	if errors.Is(err, library.ErrArtworkTooBig) {
		writer.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = writer.Write([]byte("Uploaded artwork is too large."))
		return nil
	} else if errors.As(err, &artworkErr) {
		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(err.Error()))
		return nil
	} else if err != nil {
		return err
	}

	writer.WriteHeader(http.StatusCreated)
	return nil
}

// imageSizeFromRequest returns the image size the request asks for with its
// "size" query parameter. The original size is the default.
func imageSizeFromRequest(req *http.Request) library.ImageSize {
	if req.URL.Query().Get("size") == "small" {
		return library.SmallImage
	}
	return library.OriginalImage
}

// NewAlbumArtworkHandler returns a new album artwork handler. It needs an
// implementation of the ArtworkManager.
func NewAlbumArtworkHandler(am library.ArtworkManager) *AlbumArtworkHandler {
	return &AlbumArtworkHandler{
		artworkManager: am,
	}
}
