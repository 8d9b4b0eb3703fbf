package webserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gbrlsnchs/jwt/v3"

	"github.com/calliopefm/calliope/src/config"
	"github.com/calliopefm/calliope/src/webserver"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
}

// TestAuthHandlerBasicAuth checks authentication with username and
// password.
func TestAuthHandlerBasicAuth(t *testing.T) {
	auth := config.Auth{User: "heino", Password: "melody", Secret: "s3cr3t"}
	handler := webserver.NewAuthHandler(okHandler(), auth, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/browse", nil)
	req.SetBasicAuth("heino", "melody")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("correct basic auth was rejected with %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/browse", nil)
	req.SetBasicAuth("heino", "wrong")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("wrong basic auth was accepted with %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/browse", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("no credentials were accepted with %d", resp.Code)
	}
}

// TestAuthHandlerExceptions makes sure the exception paths are reachable
// without any credentials.
func TestAuthHandlerExceptions(t *testing.T) {
	auth := config.Auth{User: "heino", Password: "melody", Secret: "s3cr3t"}
	handler := webserver.NewAuthHandler(okHandler(), auth, []string{"/v1/login/"})

	req := httptest.NewRequest(http.MethodPost, "/v1/login/token/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("the login endpoint required authentication: %d", resp.Code)
	}
}

// TestLoginTokenFlow logs in with the token endpoint and uses the issued
// token for a Bearer authenticated request.
func TestLoginTokenFlow(t *testing.T) {
	auth := config.Auth{User: "heino", Password: "melody", Secret: "s3cr3t"}
	loginHandler := webserver.NewLoginTokenHandler(auth)

	body := bytes.NewBufferString(`{"username": "heino", "password": "melody"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/login/token/", body)
	resp := httptest.NewRecorder()
	loginHandler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", resp.Code, resp.Body.String())
	}

	var tokenResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &tokenResp); err != nil {
		t.Fatalf("token response was not valid JSON: %s", err)
	}
	if tokenResp.Token == "" {
		t.Fatal("no token in the login response")
	}

	authHandler := webserver.NewAuthHandler(okHandler(), auth, nil)

	req = httptest.NewRequest(http.MethodGet, "/v1/browse", nil)
	req.Header.Set("Authorization", "Bearer "+tokenResp.Token)
	resp = httptest.NewRecorder()
	authHandler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("the issued token was rejected with %d", resp.Code)
	}

	// The token also works as a query parameter.
	req = httptest.NewRequest(http.MethodGet, "/v1/browse?token="+tokenResp.Token, nil)
	resp = httptest.NewRecorder()
	authHandler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("the token in the query string was rejected with %d", resp.Code)
	}

	// A token signed with a different secret is rejected.
	otherHandler := webserver.NewAuthHandler(
		okHandler(),
		config.Auth{User: "heino", Password: "melody", Secret: "other"},
		nil,
	)

	req = httptest.NewRequest(http.MethodGet, "/v1/browse", nil)
	req.Header.Set("Authorization", "Bearer "+tokenResp.Token)
	resp = httptest.NewRecorder()
	otherHandler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("a token with a wrong signature was accepted with %d", resp.Code)
	}
}

// TestAuthHandlerExpiredToken makes sure a token past its expiration time
// is rejected even though its signature is valid.
func TestAuthHandlerExpiredToken(t *testing.T) {
	auth := config.Auth{User: "heino", Password: "melody", Secret: "s3cr3t"}

	now := time.Now()
	pl := jwt.Payload{
		IssuedAt:       jwt.NumericDate(now.Add(-2 * time.Hour)),
		ExpirationTime: jwt.NumericDate(now.Add(-time.Hour)),
	}
	expired, err := jwt.Sign(pl, jwt.NewHS256([]byte(auth.Secret)))
	if err != nil {
		t.Fatalf("signing the expired token failed: %s", err)
	}

	handler := webserver.NewAuthHandler(okHandler(), auth, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/browse", nil)
	req.Header.Set("Authorization", "Bearer "+string(expired))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("an expired token was accepted with %d", resp.Code)
	}

	// The same payload with a future expiration time is accepted.
	pl.ExpirationTime = jwt.NumericDate(now.Add(time.Hour))
	valid, err := jwt.Sign(pl, jwt.NewHS256([]byte(auth.Secret)))
	if err != nil {
		t.Fatalf("signing the valid token failed: %s", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/browse", nil)
	req.Header.Set("Authorization", "Bearer "+string(valid))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("a valid token was rejected with %d", resp.Code)
	}
}

// TestLoginTokenWrongCreds makes sure no token is issued for wrong
// credentials.
func TestLoginTokenWrongCreds(t *testing.T) {
	auth := config.Auth{User: "heino", Password: "melody", Secret: "s3cr3t"}
	loginHandler := webserver.NewLoginTokenHandler(auth)

	body := bytes.NewBufferString(`{"username": "heino", "password": "wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/login/token/", body)
	resp := httptest.NewRecorder()
	loginHandler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong credentials but got %d", resp.Code)
	}
}
