package muxhandlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/workopia/mux"
)

// ErrNoCredentials is returned when BasicAuthConfig has an empty username or
// password.
var ErrNoCredentials = errors.New("basic auth: username and password must be set")

// BasicAuthConfig configures the Basic Auth middleware behaviour.
//
// See https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate header.
	// Defaults to "Restricted" when empty.
	Realm string

	// Username and Password form the single accepted credential.
	Username string
	Password string
}

// BasicAuthMiddleware returns a middleware that implements HTTP Basic
// Authentication per RFC 7617 for one operator credential. It responds with
// 401 Unauthorized when credentials are missing or invalid.
//
// It returns ErrNoCredentials if the username or password is empty.
func BasicAuthMiddleware(cfg BasicAuthConfig) (mux.MiddlewareFunc, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, ErrNoCredentials
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)
	wantUser := sha256.Sum256([]byte(cfg.Username))
	wantPass := sha256.Sum256([]byte(cfg.Password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()

			gotUser := sha256.Sum256([]byte(username))
			gotPass := sha256.Sum256([]byte(password))

			// Both comparisons always run so timing does not reveal which
			// half of the credential was wrong.
			userMatch := subtle.ConstantTimeCompare(gotUser[:], wantUser[:])
			passMatch := subtle.ConstantTimeCompare(gotPass[:], wantPass[:])

			if !ok || userMatch&passMatch != 1 {
				w.Header().Set("WWW-Authenticate", wwwAuthenticate)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
