package muxhandlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})

	t.Run("writes 500 and logs through context logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		handler := RecoveryMiddleware(RecoveryConfig{})(panicking)

		req := httptest.NewRequest(http.MethodGet, "/listings/1", nil)
		req = req.WithContext(logger.WithContext(req.Context()))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, buf.String(), `"panic":"boom"`)
		assert.Contains(t, buf.String(), `"path":"/listings/1"`)
		assert.Contains(t, buf.String(), "recovered from panic")
	})

	t.Run("custom log func and handler", func(t *testing.T) {
		var recovered any

		handler := RecoveryMiddleware(RecoveryConfig{
			LogFunc: func(_ *http.Request, err any) { recovered = err },
			Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("oops"))
			}),
		})(panicking)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "boom", recovered)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "oops", w.Body.String())
	})

	t.Run("passes through without panic", func(t *testing.T) {
		handler := RecoveryMiddleware(RecoveryConfig{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("re-panics abort handler", func(t *testing.T) {
		handler := RecoveryMiddleware(RecoveryConfig{})(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
