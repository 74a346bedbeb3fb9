package mux

import "net/http"

// applyMiddleware wraps the handler so that mwf[0] runs first.
func applyMiddleware(handler http.Handler, mwf []MiddlewareFunc) http.Handler {
	for i := len(mwf) - 1; i >= 0; i-- {
		handler = mwf[i].Middleware(handler)
	}
	return handler
}

// Chain wraps handler with the given middleware. The first middleware is
// the outermost, so it runs first on the way in.
func Chain(handler http.Handler, mwf ...MiddlewareFunc) http.Handler {
	return applyMiddleware(handler, mwf)
}
