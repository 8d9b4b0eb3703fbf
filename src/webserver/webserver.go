// Package webserver contains the webserver which deals with processing
// requests from the user, presenting the API of the service.
package webserver

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/calliopefm/calliope/src/art"
	"github.com/calliopefm/calliope/src/bio"
	"github.com/calliopefm/calliope/src/config"
	"github.com/calliopefm/calliope/src/library"
)

// BiographyProvider is a type which can return the stored biography of an
// artist in the collection by its ID.
type BiographyProvider interface {
	ArtistBio(ctx context.Context, artistID int64) (bio.Biography, error)
}

// RatingSetter is a type which can change the user rating of a track in the
// collection.
type RatingSetter interface {
	SetTrackRating(ctx context.Context, mediaID int64, rating uint8) error
}

// Server represents our webserver. It will be controlled from here.
type Server struct {

	// Configuration of this server.
	cfg config.Config

	// WG used in Server.Wait to sync with server's end.
	wg sync.WaitGroup

	// Makes sure Serve does not return before all the starting work has
	// been finished.
	startWG sync.WaitGroup

	// The actual http.Server doing the HTTP work.
	httpSrv *http.Server

	// The server's net.Listener. Used in the Server.Stop func.
	listener net.Listener

	// This server's library with media.
	library library.Library

	browser        library.Browser
	artworkManager library.ArtworkManager
	imageManager   library.ArtistImageManager
	bioProvider    BiographyProvider
	ratings        RatingSetter
	artFinder      art.Finder
}

// Serve actually starts the webserver. It attaches all the handlers and
// starts the webserver while consulting the configuration supplied. Trying
// to call this method more than once for the same server will result in
// panic.
func (srv *Server) Serve() {
	if srv.listener != nil {
		panic("second Server.Serve call for the same server")
	}
	srv.wg.Add(1)
	srv.startWG.Add(1)
	go srv.serveGoroutine()
	srv.startWG.Wait()
}

func (srv *Server) serveGoroutine() {
	defer srv.wg.Done()

	handler := NewRouter(
		srv.cfg,
		srv.library,
		srv.browser,
		srv.artworkManager,
		srv.imageManager,
		srv.bioProvider,
		srv.ratings,
		srv.artFinder,
	)

	if srv.cfg.Gzip {
		log.Println("Adding gzip handler")
		handler = NewGzipHandler(handler, gzipExceptions)
	}

	if srv.cfg.Auth {
		log.Println("Adding authentication handler")
		handler = NewAuthHandler(
			handler,
			srv.cfg.Authenticate,
			authExceptions,
		)
	}

	srv.httpSrv = &http.Server{
		Addr:           srv.cfg.Listen,
		Handler:        handler,
		ReadTimeout:    time.Duration(srv.cfg.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(srv.cfg.WriteTimeout) * time.Second,
		MaxHeaderBytes: srv.cfg.MaxHeadersSize,
	}

	reason := srv.listenAndServe()

	log.Println("Webserver stopped.")

	if reason != nil {
		log.Printf("Reason: %s\n", reason.Error())
	}
}

// Uses our own listener to make our server stoppable. Similar to
// net.http.Server.ListenAndServe only this version saves a reference to the
// listener.
func (srv *Server) listenAndServe() error {
	addr := srv.httpSrv.Addr
	if addr == "" {
		addr = ":http"
	}
	lsn, err := net.Listen("tcp", addr)
	if err != nil {
		srv.startWG.Done()
		return err
	}
	srv.listener = lsn
	log.Println("Webserver started.")
	srv.startWG.Done()
	return srv.httpSrv.Serve(lsn)
}

// Stop stops the webserver.
func (srv *Server) Stop() {
	if srv.listener != nil {
		srv.listener.Close()
		srv.listener = nil
	}
}

// Wait syncs whoever called this with the server's stop.
func (srv *Server) Wait() {
	srv.wg.Wait()
}

// NewRouter returns an http.Handler with all the API endpoints attached to
// it. It is the whole of the API surface without the wrapping gzip and
// authentication handlers.
func NewRouter(
	cfg config.Config,
	lib library.Library,
	browser library.Browser,
	artworkManager library.ArtworkManager,
	imageManager library.ArtistImageManager,
	bioProvider BiographyProvider,
	ratings RatingSetter,
	artFinder art.Finder,
) http.Handler {
	router := mux.NewRouter()
	router.StrictSlash(true)

	router.Handle(
		APIv1EndpointLoginToken,
		NewLoginTokenHandler(cfg.Authenticate),
	).Methods(APIv1Methods[APIv1EndpointLoginToken]...)

	router.Handle(
		APIv1EndpointSearchWithPath,
		NewSearchHandler(lib),
	).Methods(APIv1Methods[APIv1EndpointSearchWithPath]...)

	router.Handle(
		APIv1EndpointSearch,
		NewSearchHandler(lib),
	).Methods(APIv1Methods[APIv1EndpointSearch]...)

	router.Handle(
		APIv1EndpointBrowse,
		NewBrowseHandler(browser),
	).Methods(APIv1Methods[APIv1EndpointBrowse]...)

	router.Handle(
		APIv1EndpointCollectionTree,
		NewCollectionTreeHandler(lib),
	).Methods(APIv1Methods[APIv1EndpointCollectionTree]...)

	router.Handle(
		APIv1EndpointFile,
		NewFileHandler(lib),
	).Methods(APIv1Methods[APIv1EndpointFile]...)

	router.Handle(
		APIv1EndpointAlbumArtwork,
		NewAlbumArtworkHandler(artworkManager),
	).Methods(APIv1Methods[APIv1EndpointAlbumArtwork]...)

	router.Handle(
		APIv1EndpointArtistImage,
		NewArtistImagesHandler(imageManager),
	).Methods(APIv1Methods[APIv1EndpointArtistImage]...)

	router.Handle(
		APIv1EndpointArtistBio,
		NewArtistBioHandler(bioProvider),
	).Methods(APIv1Methods[APIv1EndpointArtistBio]...)

	router.Handle(
		APIv1EndpointTrackRating,
		NewRatingHandler(ratings),
	).Methods(APIv1Methods[APIv1EndpointTrackRating]...)

	router.Handle(
		APIv1EndpointCoversSearch,
		NewCoversSearchHandler(artFinder),
	).Methods(APIv1Methods[APIv1EndpointCoversSearch]...)

	router.Handle(
		APIv1EndpointAbout,
		NewAboutHandler(),
	).Methods(APIv1Methods[APIv1EndpointAbout]...)

	return router
}

// NewServer returns a new Server using the supplied configuration cfg. The
// returned server is ready and calling its Serve method will start it.
func NewServer(
	cfg config.Config,
	lib library.Library,
	browser library.Browser,
	artworkManager library.ArtworkManager,
	imageManager library.ArtistImageManager,
	bioProvider BiographyProvider,
	ratings RatingSetter,
	artFinder art.Finder,
) *Server {
	return &Server{
		cfg:            cfg,
		library:        lib,
		browser:        browser,
		artworkManager: artworkManager,
		imageManager:   imageManager,
		bioProvider:    bioProvider,
		ratings:        ratings,
		artFinder:      artFinder,
	}
}
