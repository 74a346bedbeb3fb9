package muxhandlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/vitalvas/workopia/mux"
)

// ErrInvalidTimeout is returned when TimeoutConfig.Duration is not greater
// than zero.
var ErrInvalidTimeout = errors.New("timeout: duration must be greater than zero")

// TimeoutConfig configures the Timeout middleware behaviour.
type TimeoutConfig struct {
	// Duration bounds how long a handler may run. Must be greater than zero.
	Duration time.Duration

	// Message is the body of the 503 answer sent when the deadline passes.
	// Defaults to "Request timed out".
	Message string
}

// TimeoutMiddleware returns a middleware that answers 503 Service
// Unavailable when the handler runs past Duration. The request context
// carries the deadline, so database and session store calls made by the
// handler are cancelled with it.
//
// It returns ErrInvalidTimeout if Duration is not greater than zero.
func TimeoutMiddleware(cfg TimeoutConfig) (mux.MiddlewareFunc, error) {
	if cfg.Duration <= 0 {
		return nil, ErrInvalidTimeout
	}

	message := cfg.Message
	if message == "" {
		message = "Request timed out"
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, cfg.Duration, message)
	}, nil
}
