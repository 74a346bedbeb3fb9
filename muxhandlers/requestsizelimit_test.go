package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSizeLimitMiddleware(t *testing.T) {
	t.Run("config error", func(t *testing.T) {
		_, err := RequestSizeLimitMiddleware(RequestSizeLimitConfig{})
		assert.ErrorIs(t, err, ErrInvalidMaxSize)
	})

	mw, err := RequestSizeLimitMiddleware(RequestSizeLimitConfig{MaxBytes: 16})
	require.NoError(t, err)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(r.PostFormValue("title")))
	}))

	tests := []struct {
		name          string
		body          string
		contentLength int64
		wantCode      int
	}{
		{
			name:     "within limit",
			body:     "title=dev",
			wantCode: http.StatusOK,
		},
		{
			name:     "declared length too large",
			body:     "title=" + strings.Repeat("a", 64),
			wantCode: http.StatusRequestEntityTooLarge,
		},
		{
			name:          "unknown length exceeding limit",
			body:          "title=" + strings.Repeat("a", 64),
			contentLength: -1,
			wantCode:      http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.contentLength != 0 {
				req.ContentLength = tt.contentLength
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
