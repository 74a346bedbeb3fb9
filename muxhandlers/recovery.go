package muxhandlers

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/vitalvas/workopia/mux"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs. When nil, the panic and its
	// stack are logged through the request's zerolog logger.
	LogFunc func(r *http.Request, err any)

	// Handler renders the response after a panic. When nil, a plain
	// 500 Internal Server Error is written.
	Handler http.Handler
}

// RecoveryMiddleware returns a middleware that recovers from panics in
// downstream handlers, logs them and responds with 500 Internal Server
// Error. http.ErrAbortHandler is re-panicked so net/http can abort the
// connection as intended.
func RecoveryMiddleware(cfg RecoveryConfig) mux.MiddlewareFunc {
	logFunc := cfg.LogFunc
	if logFunc == nil {
		logFunc = logPanic
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logFunc(r, err)

				if cfg.Handler != nil {
					cfg.Handler.ServeHTTP(w, r)
					return
				}

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func logPanic(r *http.Request, err any) {
	zerolog.Ctx(r.Context()).Error().
		Interface("panic", err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Bytes("stack", debug.Stack()).
		Msg("recovered from panic")
}
