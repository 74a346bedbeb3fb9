package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFilesHandler(t *testing.T) {
	t.Run("config error without fs", func(t *testing.T) {
		_, err := StaticFilesHandler(StaticFilesConfig{})
		assert.ErrorIs(t, err, ErrStaticFilesNoFS)
	})

	files := fstest.MapFS{
		"css/style.css":   {Data: []byte("body{margin:0}")},
		"images/logo.png": {Data: []byte("png")},
	}

	handler, err := StaticFilesHandler(StaticFilesConfig{FS: files, Prefix: "/static/", MaxAge: 3600})
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "serves stylesheet", path: "/static/css/style.css", wantCode: http.StatusOK, wantBody: "body{margin:0}"},
		{name: "serves image", path: "/static/images/logo.png", wantCode: http.StatusOK, wantBody: "png"},
		{name: "missing file", path: "/static/css/missing.css", wantCode: http.StatusNotFound},
		{name: "directory not listed", path: "/static/css/", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
