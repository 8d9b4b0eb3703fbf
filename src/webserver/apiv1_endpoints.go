package webserver

import "net/http"

// The following are URL Path endpoints for certain API calls.
const (
	APIv1EndpointFile           = "/v1/file/{fileID}"
	APIv1EndpointAlbumArtwork   = "/v1/album/{albumID}/artwork"
	APIv1EndpointArtistImage    = "/v1/artist/{artistID}/image"
	APIv1EndpointArtistBio      = "/v1/artist/{artistID}/bio"
	APIv1EndpointTrackRating    = "/v1/track/{trackID}/rating"
	APIv1EndpointBrowse         = "/v1/browse"
	APIv1EndpointCollectionTree = "/v1/collection/tree"
	APIv1EndpointCoversSearch   = "/v1/covers/search"
	APIv1EndpointSearchWithPath = "/v1/search/{searchQuery}"
	APIv1EndpointSearch         = "/v1/search/"
	APIv1EndpointLoginToken     = "/v1/login/token/"
	APIv1EndpointAbout          = "/v1/about"
)

// APIv1Methods defines on which HTTP methods APIv1 endpoints will respond
// to. It is an uri_path => list of HTTP methods map.
var APIv1Methods = map[string][]string{
	APIv1EndpointFile:           {http.MethodGet},
	APIv1EndpointAlbumArtwork:   {http.MethodGet, http.MethodPut, http.MethodDelete},
	APIv1EndpointArtistImage:    {http.MethodGet, http.MethodPut, http.MethodDelete},
	APIv1EndpointArtistBio:      {http.MethodGet},
	APIv1EndpointTrackRating:    {http.MethodPut},
	APIv1EndpointBrowse:         {http.MethodGet},
	APIv1EndpointCollectionTree: {http.MethodGet},
	APIv1EndpointCoversSearch:   {http.MethodGet},
	APIv1EndpointSearchWithPath: {http.MethodGet},
	APIv1EndpointSearch:         {http.MethodGet},
	APIv1EndpointLoginToken:     {http.MethodPost},
	APIv1EndpointAbout:          {http.MethodGet},
}

// gzipExceptions are path prefixes whose responses are raw image or media
// bytes which do not gain anything from a second compression.
var gzipExceptions = []string{
	"/v1/file/",
}

// authExceptions are path prefixes which must be reachable without any
// authentication. Otherwise no-one would be able to log in.
var authExceptions = []string{
	"/v1/login/",
}
