package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/calliopefm/calliope/src/version"
)

type aboutHandler struct{}

// NewAboutHandler returns a handler which reports the server version.
func NewAboutHandler() http.Handler {
	return &aboutHandler{}
}

func (h *aboutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	enc := json.NewEncoder(w)
	_ = enc.Encode(struct {
		ServerVersion string `json:"server_version"`
	}{
		ServerVersion: version.Version,
	})
}
