// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger from level ("debug", "info", ...) and
// format ("json" or "console") and writes to out. A nil out means stdout.
// The global logger becomes the default context logger, so zerolog.Ctx
// never returns a disabled logger.
func Setup(level, format string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if out == nil {
		out = os.Stdout
	}

	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(out).With().Timestamp().Str("service", "workopia").Logger()

	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	return logger, nil
}

// FromRequest returns the request-scoped logger, which carries the request
// id when the request passed through the request id middleware.
func FromRequest(r *http.Request) *zerolog.Logger {
	return zerolog.Ctx(r.Context())
}
