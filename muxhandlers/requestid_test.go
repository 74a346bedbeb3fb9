package muxhandlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/vitalvas/workopia/mux"
)

var (
	uuidV4Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidV7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		config         RequestIDConfig
		incomingHeader string
		wantHeader     string
		wantGenerated  bool
	}{
		{
			name:          "generates UUID v7 by default",
			config:        RequestIDConfig{},
			wantGenerated: true,
		},
		{
			name:           "does not trust incoming by default",
			config:         RequestIDConfig{},
			incomingHeader: "existing-id",
			wantGenerated:  true,
		},
		{
			name:           "trusts incoming when configured",
			config:         RequestIDConfig{TrustIncoming: true},
			incomingHeader: "existing-id",
			wantHeader:     "existing-id",
		},
		{
			name:          "generates when trust incoming but no header",
			config:        RequestIDConfig{TrustIncoming: true},
			wantGenerated: true,
		},
		{
			name:       "custom generate func",
			config:     RequestIDConfig{GenerateFunc: func(_ *http.Request) string { return "custom-id" }},
			wantHeader: "custom-id",
		},
		{
			name:       "custom header name",
			config:     RequestIDConfig{HeaderName: "X-Trace-ID", GenerateFunc: func(_ *http.Request) string { return "trace-123" }},
			wantHeader: "trace-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedRequestHeader, capturedContextID string

			headerName := tt.config.HeaderName
			if headerName == "" {
				headerName = "X-Request-ID"
			}

			r := mux.NewRouter()
			r.Get("/test", func(_ http.ResponseWriter, req *http.Request) {
				capturedRequestHeader = req.Header.Get(headerName)
				capturedContextID = RequestIDFromContext(req.Context())
			})
			r.Use(RequestIDMiddleware(tt.config))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incomingHeader != "" {
				req.Header.Set(headerName, tt.incomingHeader)
			}

			r.ServeHTTP(w, req)

			got := w.Header().Get(headerName)
			if tt.wantGenerated {
				assert.Regexp(t, uuidV7Regex, got)
				assert.NotEqual(t, tt.incomingHeader, got)
			} else {
				assert.Equal(t, tt.wantHeader, got)
			}

			assert.Equal(t, got, capturedRequestHeader)
			assert.Equal(t, got, capturedContextID)
		})
	}
}

func TestRequestIDMiddlewareLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	mw := RequestIDMiddleware(RequestIDConfig{
		Logger:       &base,
		GenerateFunc: func(_ *http.Request) string { return "req-1" },
	})

	handler := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"message":"inside"`)
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}

func TestGenerateUUID(t *testing.T) {
	assert.Regexp(t, uuidV4Regex, GenerateUUIDv4(nil))
	assert.Regexp(t, uuidV7Regex, GenerateUUIDv7(nil))
	assert.NotEqual(t, GenerateUUIDv7(nil), GenerateUUIDv7(nil))
}
