package webserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/calliopefm/calliope/src/library"
)

// SearchHandler is responsible for search requests. It will use the Library
// to return a list of matched files to the interface.
type SearchHandler struct {
	library library.Library
}

// ServeHTTP is required by the http.Handler's interface.
func (sh SearchHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	InternalErrorOnErrorHandler(writer, req, sh.search)
}

func (sh SearchHandler) search(writer http.ResponseWriter, req *http.Request) error {
	writer.Header().Add("Content-Type", "application/json; charset=utf-8")

	if err := req.ParseForm(); err != nil {
		respondWithJSONError(writer, http.StatusBadRequest, "%s", err)
		return nil
	}

	query := req.Form.Get("q")
	if query == "" {
		if pathQuery, ok := mux.Vars(req)["searchQuery"]; ok {
			unescaped, err := url.QueryUnescape(pathQuery)
			if err != nil {
				respondWithJSONError(
					writer,
					http.StatusBadRequest,
					"Bad query in URL path: %s.",
					err,
				)
				return nil
			}
			query = unescaped
		}
	}

	args := library.SearchArgs{
		Query:  query,
		Filter: library.NewFilterOptions(),
	}

	switch filter := req.Form.Get("filter"); filter {
	case "":
	case "duplicates":
		args.Filter.Mode = library.FilterModeDuplicates
	case "untagged":
		args.Filter.Mode = library.FilterModeUntagged
	default:
		respondWithJSONError(
			writer,
			http.StatusBadRequest,
			"Wrong 'filter' parameter. Must be 'duplicates' or 'untagged'.",
		)
		return nil
	}

	if maxAgeStr := req.Form.Get("max-age"); maxAgeStr != "" {
		maxAge, err := strconv.ParseInt(maxAgeStr, 10, 64)
		if err != nil || maxAge < 0 {
			respondWithJSONError(
				writer,
				http.StatusBadRequest,
				"Wrong 'max-age' parameter. Must be a positive number of seconds.",
			)
			return nil
		}
		args.Filter.MaxAge = maxAge
	}

	results := sh.library.Search(req.Context(), args)

	if len(results) == 0 {
		_, err := writer.Write([]byte("[]"))
		return err
	}

	marshalled, err := json.Marshal(results)
	if err != nil {
		return err
	}

	_, err = writer.Write(marshalled)
	return err
}

// NewSearchHandler returns a new SearchHandler for processing search
// queries. They will be run against the supplied library.
func NewSearchHandler(lib library.Library) *SearchHandler {
	sh := new(SearchHandler)
	sh.library = lib
	return sh
}
