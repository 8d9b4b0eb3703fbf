package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// InternalErrorOnErrorHandler is used to wrap around handler-like functions
// which just return error. This function actually writes the HTTP error and
// renders the error in the response.
func InternalErrorOnErrorHandler(
	writer http.ResponseWriter,
	req *http.Request,
	fnc func(http.ResponseWriter, *http.Request) error,
) {
	err := fnc(writer, req)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write([]byte(err.Error()))
	}
}

// respondWithJSONError writes a JSON object with a single "error" key in
// the response along with the given status code.
func respondWithJSONError(
	w http.ResponseWriter,
	code int,
	msgf string,
	args ...interface{},
) {
	resp := struct {
		Error string `json:"error"`
	}{
		Error: fmt.Sprintf(msgf, args...),
	}

	enc := json.NewEncoder(w)

	w.WriteHeader(code)
	_ = enc.Encode(resp)
}
