package muxhandlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vitalvas/workopia/mux"
)

// ErrInvalidFrameOption is returned when SecurityHeadersConfig.FrameOption is
// not one of the valid values: "DENY", "SAMEORIGIN", or empty string.
var ErrInvalidFrameOption = errors.New("security headers: frame option must be DENY, SAMEORIGIN, or empty")

// DefaultContentSecurityPolicy allows the application's own assets plus the
// font and icon CDNs used by the page layout.
const DefaultContentSecurityPolicy = "default-src 'self'; " +
	"style-src 'self' https://cdnjs.cloudflare.com; " +
	"font-src 'self' https://cdnjs.cloudflare.com; " +
	"img-src 'self' data:; " +
	"form-action 'self'; frame-ancestors 'none'"

// SecurityHeadersConfig configures the Security Headers middleware behaviour.
type SecurityHeadersConfig struct {
	// FrameOption sets the X-Frame-Options header value.
	// Valid values are "DENY", "SAMEORIGIN", or empty string for "DENY".
	FrameOption string

	// ReferrerPolicy sets the Referrer-Policy header value.
	// Defaults to "strict-origin-when-cross-origin".
	ReferrerPolicy string

	// HSTSMaxAge sets the max-age directive for the Strict-Transport-Security
	// header in seconds. When zero, the header is not set.
	HSTSMaxAge int

	// ContentSecurityPolicy sets the Content-Security-Policy header.
	// Defaults to DefaultContentSecurityPolicy; "-" disables the header.
	ContentSecurityPolicy string
}

// SecurityHeadersMiddleware returns a middleware that sets the security
// response headers served with every page. Headers are set before calling
// the next handler.
//
// It returns ErrInvalidFrameOption if FrameOption is set to a value other than
// "DENY", "SAMEORIGIN", or empty string.
func SecurityHeadersMiddleware(cfg SecurityHeadersConfig) (mux.MiddlewareFunc, error) {
	frameOption := cfg.FrameOption
	switch frameOption {
	case "":
		frameOption = "DENY"
	case "DENY", "SAMEORIGIN":
	default:
		return nil, ErrInvalidFrameOption
	}

	referrerPolicy := cfg.ReferrerPolicy
	if referrerPolicy == "" {
		referrerPolicy = "strict-origin-when-cross-origin"
	}

	csp := cfg.ContentSecurityPolicy
	switch csp {
	case "":
		csp = DefaultContentSecurityPolicy
	case "-":
		csp = ""
	}

	var hsts string
	if cfg.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", frameOption)
			h.Set("Referrer-Policy", referrerPolicy)

			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}

			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
