package webserver

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gbrlsnchs/jwt/v3"

	"github.com/calliopefm/calliope/src/config"
)

const (
	authRequiredJSON = `{"error": "authentication required"}`

	// sessionCookieName is the name of the cookie in which a session token
	// may be stored.
	sessionCookieName = "session"

	// rememberMeDuration is the lifetime of issued tokens.
	rememberMeDuration = 62 * 24 * time.Hour
)

// AuthHandler is a handler wrapper used for authentication. Its only job is
// to do the authentication and then pass the work to the Handler it wraps
// around. Possible methods for authentication:
//
//   - Basic Auth with the username and password
//   - Authorization Bearer JWT token
//   - JWT token in a session cookie
//   - JWT token as a query string
//
// Basic auth is preserved for simple scripting against the API. Needless to
// say, it is not the preferred method for authentication.
type AuthHandler struct {
	wrapped    http.Handler // The actual handler that does the app logic job
	username   string       // Username to be used for basic authenticate
	password   string       // Password to be used for basic authenticate
	secret     []byte       // Secret used to craft and decode tokens
	exceptions []string     // Paths which will be exempt from authentication
}

// ServeHTTP implements the http.Handler interface and does the actual
// authentication check for every request.
func (hl *AuthHandler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	if !hl.authenticated(req) {
		hl.challengeAuthentication(writer)
		return
	}

	hl.wrapped.ServeHTTP(writer, req)
}

// Sends 401 and an authentication challenge in the writer.
func (hl *AuthHandler) challengeAuthentication(writer http.ResponseWriter) {
	writer.Header().Set("WWW-Authenticate", `Basic realm="calliope"`)
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(http.StatusUnauthorized)
	_, _ = writer.Write([]byte(authRequiredJSON))
}

// Checks the credentials presented by the request against the stored user,
// password and token secret. Returns true when they pass.
func (hl *AuthHandler) authenticated(r *http.Request) bool {
	for _, path := range hl.exceptions {
		if strings.HasPrefix(r.URL.Path, path) {
			return true
		}
	}

	authHeader := r.Header.Get("Authorization")

	if strings.HasPrefix(authHeader, "Bearer ") {
		return hl.withJWT(strings.TrimPrefix(authHeader, "Bearer "))
	}

	if strings.HasPrefix(authHeader, "Basic ") {
		return hl.withBasicAuth(strings.TrimPrefix(authHeader, "Basic "))
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return hl.withJWT(cookie.Value)
	}

	if queryToken := r.URL.Query().Get("token"); queryToken != "" {
		return hl.withJWT(queryToken)
	}

	return false
}

func (hl *AuthHandler) withBasicAuth(encoded string) bool {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return false
	}

	pair := strings.SplitN(string(b), ":", 2)

	if len(pair) != 2 {
		return false
	}

	return pair[0] == hl.username && pair[1] == hl.password
}

func (hl *AuthHandler) withJWT(token string) bool {
	if len(hl.secret) == 0 {
		return false
	}

	var pl jwt.Payload
	verifier := jwt.NewHS256(hl.secret)
	validate := jwt.ValidatePayload(
		&pl,
		jwt.ExpirationTimeValidator(time.Now()),
	)

	_, err := jwt.Verify([]byte(token), verifier, &pl, validate)
	return err == nil
}

// NewAuthHandler returns a handler which will pass requests to `wrapped`
// only when they carry valid credentials as described by `auth`. Requests
// for paths with a prefix in `exceptions` are passed through untouched.
func NewAuthHandler(
	wrapped http.Handler,
	auth config.Auth,
	exceptions []string,
) http.Handler {
	return &AuthHandler{
		wrapped:    wrapped,
		username:   auth.User,
		password:   auth.Password,
		secret:     []byte(auth.Secret),
		exceptions: exceptions,
	}
}
