package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/calliopefm/calliope/src/filter"
	"github.com/calliopefm/calliope/src/library"
)

// CollectionTreeHandler is a http.Handler which returns the whole
// collection as a hierarchical tree of containers and tracks, optionally
// narrowed down with a filter string.
type CollectionTreeHandler struct {
	library library.Library
}

// ServeHTTP is required by the http.Handler's interface.
func (cth CollectionTreeHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	InternalErrorOnErrorHandler(writer, req, cth.tree)
}

func (cth CollectionTreeHandler) tree(writer http.ResponseWriter, req *http.Request) error {
	writer.Header().Add("Content-Type", "application/json; charset=utf-8")

	if err := req.ParseForm(); err != nil {
		respondWithJSONError(writer, http.StatusBadRequest, "%s", err)
		return nil
	}

	groupBy := filter.DefaultGroupBy
	if groupByParam := req.Form.Get("group-by"); groupByParam != "" {
		parsed, err := parseGroupBy(groupByParam)
		if err != nil {
			respondWithJSONError(writer, http.StatusBadRequest, "%s", err)
			return nil
		}
		groupBy = parsed
	}

	tracks := cth.library.Search(req.Context(), library.SearchArgs{
		Filter: library.NewFilterOptions(),
	})

	tree := filter.NewTree(groupBy, tracks)
	filtered := tree.Filtered(filter.New(req.Form.Get("filter")))

	enc := json.NewEncoder(writer)
	return enc.Encode(struct {
		Tree []*filter.Item `json:"tree"`
	}{
		Tree: filtered.Root.Children,
	})
}

// parseGroupBy converts a comma separated list of up to three group names
// into a GroupBySpec. Unnamed trailing levels stay disabled.
func parseGroupBy(param string) (filter.GroupBySpec, error) {
	var spec filter.GroupBySpec

	names := strings.Split(param, ",")
	if len(names) > len(spec) {
		return spec, fmt.Errorf(
			"at most %d group-by levels are supported", len(spec),
		)
	}

	for i, name := range names {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "albumartist":
			spec[i] = filter.GroupByAlbumArtist
		case "artist":
			spec[i] = filter.GroupByArtist
		case "album":
			spec[i] = filter.GroupByAlbum
		case "year-album":
			spec[i] = filter.GroupByYearAlbum
		case "year":
			spec[i] = filter.GroupByYear
		case "genre":
			spec[i] = filter.GroupByGenre
		case "none", "":
			spec[i] = filter.GroupByNone
		default:
			return spec, fmt.Errorf("unknown group-by level %q", name)
		}
	}

	return spec, nil
}

// NewCollectionTreeHandler returns a new collection tree handler reading
// tracks from the supplied library.
func NewCollectionTreeHandler(lib library.Library) *CollectionTreeHandler {
	cth := new(CollectionTreeHandler)
	cth.library = lib
	return cth
}
