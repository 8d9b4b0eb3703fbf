package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/calliopefm/calliope/src/library"
)

// BrowseHandler is a http.Handler which will allow you to browse through
// artists or albums with the help of pagination.
type BrowseHandler struct {
	browser library.Browser
}

// ServeHTTP is required by the http.Handler's interface.
func (bh BrowseHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	InternalErrorOnErrorHandler(writer, req, bh.browse)
}

// Actually generates a browse result using the library.
func (bh BrowseHandler) browse(writer http.ResponseWriter, req *http.Request) error {
	writer.Header().Add("Content-Type", "application/json; charset=utf-8")

	if err := req.ParseForm(); err != nil {
		bh.badRequest(writer, err.Error())
		return nil
	}

	var page, perPage = 1, 10
	pageStr := req.Form.Get("page")
	perPageStr := req.Form.Get("per-page")
	browseBy := req.Form.Get("by")

	if browseBy != "" && browseBy != "artist" && browseBy != "album" {
		bh.badRequest(writer, "Wrong 'by' parameter. Must be 'album' or 'artist'")
		return nil
	}

	if pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)

		if err != nil {
			bh.badRequest(writer, fmt.Sprintf(`Wrong "page" parameter: %s`, err))
			return nil
		}
	}

	if perPageStr != "" {
		var err error
		perPage, err = strconv.Atoi(perPageStr)

		if err != nil {
			bh.badRequest(writer, fmt.Sprintf(`Wrong "per-page" parameter: %s`, err))
			return nil
		}
	}

	if page < 1 || perPage < 1 {
		bh.badRequest(writer, `"page" and "per-page" must be integers greater than one`)
		return nil
	}

	args := library.BrowseArgs{
		// In the API we count pages starting from 1. But for the library
		// implementation they are counted from 0.
		Page:    uint(page - 1),
		PerPage: uint(perPage),
	}

	switch req.Form.Get("order-by") {
	case "", "name":
		args.OrderBy = library.OrderByName
	case "id":
		args.OrderBy = library.OrderByID
	default:
		bh.badRequest(writer, "Wrong 'order-by' parameter. Must be 'id' or 'name'")
		return nil
	}

	switch req.Form.Get("order") {
	case "", "asc":
		args.Order = library.OrderAsc
	case "desc":
		args.Order = library.OrderDesc
	default:
		bh.badRequest(writer, "Wrong 'order' parameter. Must be 'asc' or 'desc'")
		return nil
	}

	if browseBy == "artist" {
		return bh.browseArtists(writer, args)
	}

	return bh.browseAlbums(writer, args)
}

func (bh BrowseHandler) browseAlbums(
	writer http.ResponseWriter,
	args library.BrowseArgs,
) error {
	albums, count := bh.browser.BrowseAlbums(args)

	retData := struct {
		Data       []library.Album `json:"data"`
		Next       string          `json:"next"`
		Previous   string          `json:"previous"`
		PagesCount int             `json:"pages_count"`
	}{
		Data:       albums,
		PagesCount: pagesCount(count, int(args.PerPage)),
	}
	retData.Previous, retData.Next = pageURIs("album", args, count)

	marshalled, err := json.Marshal(retData)
	if err != nil {
		return err
	}

	_, err = writer.Write(marshalled)
	return err
}

func (bh BrowseHandler) browseArtists(
	writer http.ResponseWriter,
	args library.BrowseArgs,
) error {
	artists, count := bh.browser.BrowseArtists(args)

	retData := struct {
		Data       []library.Artist `json:"data"`
		Next       string           `json:"next"`
		Previous   string           `json:"previous"`
		PagesCount int              `json:"pages_count"`
	}{
		Data:       artists,
		PagesCount: pagesCount(count, int(args.PerPage)),
	}
	retData.Previous, retData.Next = pageURIs("artist", args, count)

	marshalled, err := json.Marshal(retData)
	if err != nil {
		return err
	}

	_, err = writer.Write(marshalled)
	return err
}

func (bh BrowseHandler) badRequest(writer http.ResponseWriter, message string) {
	writer.WriteHeader(http.StatusBadRequest)

	msgJSON, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{
		Error: message,
	})
	_, _ = writer.Write(msgJSON)
}

// pageURIs returns the previous and next page URIs for a browse result.
// Empty string means there is no such page.
func pageURIs(by string, args library.BrowseArgs, count int) (string, string) {
	// The library counts pages from 0, the API from 1.
	page := int(args.Page) + 1
	perPage := int(args.PerPage)

	prevPage := ""
	if page-1 > 0 {
		prevPage = fmt.Sprintf(
			"/v1/browse?by=%s&page=%d&per-page=%d", by, page-1, perPage,
		)
	}

	nextPage := ""
	if page*perPage < count {
		nextPage = fmt.Sprintf(
			"/v1/browse?by=%s&page=%d&per-page=%d", by, page+1, perPage,
		)
	}

	return prevPage, nextPage
}

func pagesCount(count, perPage int) int {
	pages := count / perPage
	if count%perPage != 0 {
		pages++
	}
	return pages
}

// NewBrowseHandler returns a new Browse handler. It needs an implementation
// of the Browser interface.
func NewBrowseHandler(browser library.Browser) *BrowseHandler {
	bh := new(BrowseHandler)
	bh.browser = browser
	return bh
}
