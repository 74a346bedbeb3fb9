package app

import (
	"net/http"

	"github.com/vitalvas/workopia/internal/session"
	"github.com/vitalvas/workopia/mux"
)

// RequireAuth lets signed-in users through and sends guests to the login
// page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(session.FromContext(r.Context())) == nil {
			mux.Redirect(w, r, "/users/login")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireGuest lets guests through and sends signed-in users home.
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(session.FromContext(r.Context())) != nil {
			mux.Redirect(w, r, "/")
			return
		}

		next.ServeHTTP(w, r)
	})
}
