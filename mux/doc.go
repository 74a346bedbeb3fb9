// Package mux implements the request router used by the Workopia web
// application. It matches an incoming HTTP verb and path against an ordered
// list of registered routes and dispatches the first structural match.
//
// The package implements routing semantics based on:
//   - RFC 9110 (HTTP Semantics)
//   - RFC 3986 (URIs, path segments)
//
// # Router
//
// Create a router and register handlers. Registration order matters: the
// first route that matches wins, so literal routes that share a shape with
// a placeholder route must be registered first:
//
//	r := mux.NewRouter()
//	r.Get("/listings/create", createHandler)
//	r.Get("/listings/{id}", showHandler)
//	http.ListenAndServe(":8080", r)
//
// # Path Variables
//
// A pattern segment wrapped in curly braces is a placeholder. It matches any
// single path segment and captures the value under the given name. A
// placeholder must span the whole segment; values are not validated:
//
//	r.Get("/listings/{id}/edit", handler)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    id := mux.Vars(r)["id"]
//	}
//
// # Matching
//
// A route is a candidate when its segment count equals the request path's
// segment count and its method equals the effective request method. Literal
// segments must be equal; placeholder segments always match.
//
// # Method Override
//
// HTML forms can only submit GET and POST. A POST request carrying a form
// field named "_method" is matched as the upper-cased value of that field,
// which allows PUT and DELETE routes to be reached from forms:
//
//	<form method="POST" action="/listings/42">
//	    <input type="hidden" name="_method" value="DELETE">
//	</form>
//
// The field name is configurable through Router.MethodOverrideField.
//
// # Middleware
//
// Middleware can be attached to a single route or to the whole router.
// Route middleware runs in registration order before the handler and may
// halt the request by writing a response (for example a redirect) without
// calling the next handler:
//
//	r.Get("/listings/create", createHandler, requireAuth)
//
// Router middleware registered with Use wraps every matched handler,
// outside of the route middleware:
//
//	r.Use(metricsMiddleware)
//
// # Not Found
//
// When no route matches, Router.NotFoundHandler is invoked. When it is nil,
// a plain 404 Not Found response is written.
//
// # Reverse Routing
//
// Named routes can build their paths from variables:
//
//	r.Get("/listings/{id}", showHandler).Name("listings.show")
//	u, err := r.GetRoute("listings.show").URL("id", "42")
//	// u.Path == "/listings/42"
package mux
