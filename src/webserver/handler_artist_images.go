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

// ArtistImagesHandler is a http.Handler which will find and serve the image
// of a particular artist.
type ArtistImagesHandler struct {
	imageManager library.ArtistImageManager
}

// ServeHTTP is required by the http.Handler's interface.
func (aih ArtistImagesHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	idString, ok := vars["artistID"]
	if !ok {
		http.NotFoundHandler().ServeHTTP(writer, req)
		return
	}

	id, err := strconv.ParseInt(idString, 10, 64)
	if err != nil {
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"Bad request. Parsing artistID: %s.",
			err,
		)
		return
	}

	switch req.Method {
	case http.MethodDelete:
		err = aih.remove(writer, req, id)
	case http.MethodPut:
		err = aih.upload(writer, req, id)
	default:
		err = aih.find(writer, req, id)
	}

	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		if _, err := writer.Write([]byte(err.Error())); err != nil {
			log.Printf("error writing body in ArtistImagesHandler: %s", err)
		}
	}
}

func (aih ArtistImagesHandler) find(
	writer http.ResponseWriter,
	req *http.Request,
	id int64,
) error {
	ctx, cancel := context.WithTimeout(req.Context(), 5*time.Minute)
	defer cancel()

	imgReader, err := aih.imageManager.FindAndSaveArtistImage(
		ctx, id, imageSizeFromRequest(req),
	)

	if errors.Is(err, library.ErrArtworkNotFound) ||
		errors.Is(err, library.ErrArtistNotFound) ||
		os.IsNotExist(err) {
		respondWithJSONError(writer, http.StatusNotFound, "404 artist image not found")
		return nil
	}

	if err != nil {
		log.Printf("Error finding artist %d image: %s\n", id, err)
		return err
	}

	defer imgReader.Close()

	writer.Header().Set("Cache-Control", "max-age=604800")
	_, err = io.Copy(writer, imgReader)

	if err != nil {
		log.Printf("error sending HTTP data for artist image %d: %s", id, err)
	}

	return nil
}

func (aih ArtistImagesHandler) remove(
	writer http.ResponseWriter,
	req *http.Request,
	id int64,
) error {
	if err := aih.imageManager.RemoveArtistImage(req.Context(), id); err != nil {
		return err
	}

	writer.WriteHeader(http.StatusNoContent)
	return nil
}

func (aih ArtistImagesHandler) upload(
	writer http.ResponseWriter,
	req *http.Request,
	id int64,
) error {
	err := aih.imageManager.SaveArtistImage(req.Context(), id, req.Body)

	var artworkErr *library.ArtworkError
	if errors.Is(err, library.ErrArtworkTooBig) {
		writer.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = writer.Write([]byte("Uploaded image is too large."))
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

// NewArtistImagesHandler returns a new artist images handler. It needs an
// implementation of the ArtistImageManager.
func NewArtistImagesHandler(im library.ArtistImageManager) *ArtistImagesHandler {
	return &ArtistImagesHandler{
		imageManager: im,
	}
}
