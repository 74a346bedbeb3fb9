package muxhandlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vitalvas/workopia/mux"
)

// ErrInvalidOverrideMethod is returned when MethodOverrideConfig.AllowedMethods
// contains an invalid HTTP method.
var ErrInvalidOverrideMethod = errors.New("method override: allowed methods must be valid HTTP methods")

// MethodOverrideConfig configures the Method Override middleware behaviour.
type MethodOverrideConfig struct {
	// HeaderNames is the list of header names checked in order.
	// The first non-empty header value is used as the override.
	// When nil, defaults to
	// ["X-HTTP-Method-Override", "X-Method-Override", "X-HTTP-Method"].
	HeaderNames []string

	// FormField is the form field checked when no override header is
	// present. When empty, form fields are not inspected.
	FormField string

	// AllowedMethods restricts which methods can be used as overrides.
	// When nil, defaults to PUT, PATCH, DELETE.
	AllowedMethods []string
}

// defaultOverrideHeaders is the default set of header names checked for
// method override when HeaderNames is nil.
var defaultOverrideHeaders = []string{
	"X-HTTP-Method-Override",
	"X-Method-Override",
	"X-HTTP-Method",
}

// defaultOverrideMethods is the set of methods allowed as overrides when
// AllowedMethods is nil.
var defaultOverrideMethods = []string{
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// MethodOverrideMiddleware returns a middleware that lets POST requests
// override their method, first through the configured headers and then
// through FormField. The override value is upper-cased and checked against
// the allowed set; disallowed values leave the request untouched. Only POST
// requests are eligible.
//
// It returns ErrInvalidOverrideMethod if AllowedMethods contains an invalid
// method.
func MethodOverrideMiddleware(cfg MethodOverrideConfig) (mux.MiddlewareFunc, error) {
	headers := cfg.HeaderNames
	if len(headers) == 0 {
		headers = defaultOverrideHeaders
	}

	methods := cfg.AllowedMethods
	if methods == nil {
		methods = defaultOverrideMethods
	}

	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		if m == "" || m != strings.ToUpper(m) {
			return nil, ErrInvalidOverrideMethod
		}
		allowed[m] = struct{}{}
	}

	headerNames := make([]string, len(headers))
	copy(headerNames, headers)

	formField := cfg.FormField

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				override, header := "", ""
				for _, h := range headerNames {
					if v := r.Header.Get(h); v != "" {
						override, header = v, h
						break
					}
				}

				if override == "" && formField != "" {
					override = r.PostFormValue(formField)
				}

				if override != "" {
					method := strings.ToUpper(override)
					if _, ok := allowed[method]; ok {
						r.Method = method
						if header != "" {
							r.Header.Del(header)
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
