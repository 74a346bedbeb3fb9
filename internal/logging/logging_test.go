package logging

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals(t *testing.T) {
	t.Helper()

	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	prevDefault := zerolog.DefaultContextLogger

	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
		zerolog.DefaultContextLogger = prevDefault
	})
}

func TestSetup(t *testing.T) {
	t.Run("json output with level filter", func(t *testing.T) {
		restoreGlobals(t)

		var buf bytes.Buffer
		logger, err := Setup("warn", "json", &buf)
		require.NoError(t, err)

		logger.Info().Msg("hidden")
		logger.Warn().Str("listing", "42").Msg("shown")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "shown", entry["message"])
		assert.Equal(t, "workopia", entry["service"])
		assert.Equal(t, "42", entry["listing"])
	})

	t.Run("console output", func(t *testing.T) {
		restoreGlobals(t)

		var buf bytes.Buffer
		logger, err := Setup("debug", "console", &buf)
		require.NoError(t, err)

		logger.Debug().Msg("pretty")
		assert.Contains(t, buf.String(), "pretty")
		assert.NotContains(t, buf.String(), `"message"`)
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		restoreGlobals(t)

		_, err := Setup("", "json", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("invalid level", func(t *testing.T) {
		restoreGlobals(t)

		_, err := Setup("loud", "json", &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestFromRequestFallsBackToGlobal(t *testing.T) {
	restoreGlobals(t)

	var buf bytes.Buffer
	_, err := Setup("info", "json", &buf)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	FromRequest(req).Info().Msg("from global")

	assert.Contains(t, buf.String(), "from global")
}
