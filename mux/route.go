package mux

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Route stores information to match a request and build URLs.
// A route is immutable once the router starts serving requests.
type Route struct {
	method      string
	pattern     string
	segments    []segment
	varCount    int
	handler     http.Handler
	middlewares []MiddlewareFunc
	name        string
	err         error
	namedRoutes map[string]*Route
}

// newRoute compiles the pattern and returns a route. A pattern error is
// recorded on the route, which then never matches.
func newRoute(method, pattern string, namedRoutes map[string]*Route) *Route {
	route := &Route{
		method:      method,
		pattern:     pattern,
		namedRoutes: namedRoutes,
	}

	route.segments, route.err = compilePattern(pattern)
	for _, seg := range route.segments {
		if seg.isVar() {
			route.varCount++
		}
	}

	return route
}

// Match matches this route against the request using the effective method
// of the request.
func (r *Route) Match(req *http.Request, match *RouteMatch) bool {
	method := EffectiveMethod(req, DefaultMethodOverrideField)
	if !r.matchSegments(method, splitPath(req.URL.Path), match) {
		return false
	}

	match.Method = method
	match.Handler = r.handler

	return true
}

// matchSegments reports whether the route matches the given method and path
// segments. On success the captured variables and the route are stored in
// match.
func (r *Route) matchSegments(method string, segments []string, match *RouteMatch) bool {
	if r.err != nil {
		return false
	}

	// Segment count and method are independent conditions; both must hold.
	if len(segments) != len(r.segments) || r.method != method {
		return false
	}

	var vars map[string]string
	if r.varCount > 0 {
		vars = make(map[string]string, r.varCount)
	}

	for i, seg := range r.segments {
		if seg.isVar() {
			vars[seg.name] = segments[i]
			continue
		}
		if seg.literal != segments[i] {
			return false
		}
	}

	match.Route = r
	match.Vars = vars

	return true
}

// --- Configuration ---

// Name sets the name for the route, used to build URLs.
// Registering the same name twice records an error on the route.
func (r *Route) Name(name string) *Route {
	if r.err != nil {
		return r
	}
	if r.name != "" {
		r.err = fmt.Errorf("mux: route already has name %q, can't set %q", r.name, name)
		return r
	}
	if _, exists := r.namedRoutes[name]; exists {
		r.err = fmt.Errorf("mux: route name %q already registered", name)
		return r
	}

	r.name = name
	r.namedRoutes[name] = r

	return r
}

// Use appends route middleware. It runs after any middleware passed at
// registration and before the handler.
func (r *Route) Use(mwf ...MiddlewareFunc) *Route {
	r.middlewares = append(r.middlewares, mwf...)
	return r
}

// --- Inspection ---

// GetName returns the name for the route, if any.
func (r *Route) GetName() string {
	return r.name
}

// GetMethod returns the method the route matches against.
func (r *Route) GetMethod() string {
	return r.method
}

// GetPathTemplate returns the pattern the route was registered with.
func (r *Route) GetPathTemplate() string {
	return r.pattern
}

// GetHandler returns the handler for the route, if any.
func (r *Route) GetHandler() http.Handler {
	return r.handler
}

// GetError returns an error resulting from building the route, if any.
func (r *Route) GetError() error {
	return r.err
}

// GetVarNames returns the placeholder names in pattern order.
func (r *Route) GetVarNames() []string {
	names := make([]string, 0, r.varCount)
	for _, seg := range r.segments {
		if seg.isVar() {
			names = append(names, seg.name)
		}
	}
	return names
}

// --- URL Building ---

// URL builds the path for the route from key/value pairs for the route
// variables. Values are path-escaped. Returns an error if the route is
// invalid or a variable is missing.
func (r *Route) URL(pairs ...string) (*url.URL, error) {
	if r.err != nil {
		return nil, r.err
	}

	values, err := mapFromPairsToString(pairs...)
	if err != nil {
		return nil, err
	}

	parts := make([]string, len(r.segments))
	for i, seg := range r.segments {
		if !seg.isVar() {
			parts[i] = seg.literal
			continue
		}

		v, ok := values[seg.name]
		if !ok {
			return nil, fmt.Errorf("mux: missing route variable %q", seg.name)
		}
		parts[i] = url.PathEscape(v)
	}

	raw := "/" + strings.Join(parts, "/")

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	return u, nil
}
