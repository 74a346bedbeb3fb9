package mux

import (
	"net/http"
	"strings"
	"sync"
)

// DefaultMethodOverrideField is the form field inspected on POST requests to
// determine the effective method.
const DefaultMethodOverrideField = "_method"

// Router registers routes to be matched and dispatches a handler.
//
// It implements the http.Handler interface, so it can be registered to serve
// requests:
//
//	r := mux.NewRouter()
//	r.Get("/", handler)
//	http.ListenAndServe(":8080", r)
type Router struct {
	// NotFoundHandler is called when no route matches.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodOverrideField is the form field whose value overrides the
	// method of a POST request. Defaults to "_method" when empty.
	MethodOverrideField string

	routes      []*Route
	namedRoutes map[string]*Route
	middlewares []MiddlewareFunc

	// handlerCache caches the middleware-wrapped handler per route
	// to avoid re-wrapping on every request.
	handlerCache sync.Map // map[*Route]http.Handler
}

// NewRouter returns a new router instance.
func NewRouter() *Router {
	return &Router{
		namedRoutes: make(map[string]*Route),
	}
}

// ServeHTTP dispatches the handler registered in the matched route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var match RouteMatch

	if !r.Match(req, &match) {
		handler := r.NotFoundHandler
		if handler == nil {
			handler = http.NotFoundHandler()
		}
		handler.ServeHTTP(w, req)
		return
	}

	req = setRouteContext(req, match.Route, match.Vars)
	if match.Method != req.Method {
		req.Method = match.Method
	}

	match.Handler.ServeHTTP(w, req)
}

// Match attempts to match the given request against the router's routes in
// registration order. The first route that matches short-circuits the
// search; its fully wrapped handler is stored in match.Handler.
func (r *Router) Match(req *http.Request, match *RouteMatch) bool {
	method := EffectiveMethod(req, r.overrideField())
	segments := splitPath(req.URL.Path)

	for _, route := range r.routes {
		if !route.matchSegments(method, segments, match) {
			continue
		}

		match.Method = method
		match.Handler = r.handlerFor(route)

		return true
	}

	match.MatchErr = ErrNotFound

	return false
}

// overrideField returns the configured method override form field.
func (r *Router) overrideField() string {
	if r.MethodOverrideField != "" {
		return r.MethodOverrideField
	}
	return DefaultMethodOverrideField
}

// handlerFor returns the route handler wrapped with route middleware and
// then router middleware, caching the result per route.
func (r *Router) handlerFor(route *Route) http.Handler {
	if cached, ok := r.handlerCache.Load(route); ok {
		return cached.(http.Handler)
	}

	handler := route.handler
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	wrapped := applyMiddleware(applyMiddleware(handler, route.middlewares), r.middlewares)
	r.handlerCache.Store(route, wrapped)

	return wrapped
}

// --- Registration ---

// Register appends a route for the given method and pattern. Routes are not
// de-duplicated and conflicts are not detected: the first registered route
// that matches a request wins. Middleware runs in the given order before
// the handler.
func (r *Router) Register(method, pattern string, handler http.Handler, mwf ...MiddlewareFunc) *Route {
	route := newRoute(strings.ToUpper(method), pattern, r.namedRoutes)
	route.handler = handler
	route.middlewares = append(route.middlewares, mwf...)

	r.routes = append(r.routes, route)

	return route
}

// Get registers a GET route.
func (r *Router) Get(pattern string, f http.HandlerFunc, mwf ...MiddlewareFunc) *Route {
	return r.Register(http.MethodGet, pattern, f, mwf...)
}

// Post registers a POST route.
func (r *Router) Post(pattern string, f http.HandlerFunc, mwf ...MiddlewareFunc) *Route {
	return r.Register(http.MethodPost, pattern, f, mwf...)
}

// Put registers a PUT route.
func (r *Router) Put(pattern string, f http.HandlerFunc, mwf ...MiddlewareFunc) *Route {
	return r.Register(http.MethodPut, pattern, f, mwf...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(pattern string, f http.HandlerFunc, mwf ...MiddlewareFunc) *Route {
	return r.Register(http.MethodPatch, pattern, f, mwf...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(pattern string, f http.HandlerFunc, mwf ...MiddlewareFunc) *Route {
	return r.Register(http.MethodDelete, pattern, f, mwf...)
}

// Use appends a MiddlewareFunc to the chain. Middleware is applied to
// matched handlers only, outside of any route middleware.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.middlewares = append(r.middlewares, mwf...)
}

// --- Inspection ---

// GetRoute returns a route registered with the given name.
func (r *Router) GetRoute(name string) *Route {
	return r.namedRoutes[name]
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	routes := make([]*Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Walk calls walkFn for each registered route in registration order.
// The first error returned by walkFn stops the walk and is returned.
func (r *Router) Walk(walkFn WalkFunc) error {
	for _, route := range r.routes {
		if err := walkFn(route, r); err != nil {
			return err
		}
	}
	return nil
}
