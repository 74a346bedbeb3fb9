package app

import (
	"context"
	"net/http"

	"github.com/vitalvas/workopia/mux"
)

// RouteOptions carries the optional pieces of the route table.
type RouteOptions struct {
	// Static serves /static/css/{file}. Not registered when nil.
	Static http.Handler

	// Metrics serves /metrics. Not registered when nil.
	Metrics http.Handler

	// MetricsAuth guards /metrics when set.
	MetricsAuth mux.MiddlewareFunc

	// LoginThrottle limits sign-in attempts when set.
	LoginThrottle mux.MiddlewareFunc

	// Health is probed by /healthz. A nil Health always reports ok.
	Health func(ctx context.Context) error

	// Middleware runs around every matched route.
	Middleware []mux.MiddlewareFunc
}

// Routes returns the router for the site. Routes are matched in
// registration order, so literal paths come before their placeholder
// siblings.
func (a *App) Routes(opts RouteOptions) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = a.NotFoundHandler()

	var throttle []mux.MiddlewareFunc
	if opts.LoginThrottle != nil {
		throttle = append(throttle, opts.LoginThrottle)
	}

	r.Get("/", a.handle(a.HomeIndex)).Name("home")

	r.Get("/listings", a.handle(a.ListingsIndex)).Name("listings.index")
	r.Get("/listings/create", a.handle(a.ListingsCreate), RequireAuth).Name("listings.create")
	r.Get("/listings/search", a.handle(a.ListingsSearch)).Name("listings.search")
	r.Get("/listings/{id}/edit", a.handle(a.ListingsEdit), RequireAuth).Name("listings.edit")
	r.Get("/listings/{id}", a.handle(a.ListingsShow)).Name("listings.show")
	r.Post("/listings", a.handle(a.ListingsStore), RequireAuth).Name("listings.store")
	r.Put("/listings/{id}", a.handle(a.ListingsUpdate), RequireAuth).Name("listings.update")
	r.Delete("/listings/{id}", a.handle(a.ListingsDestroy), RequireAuth).Name("listings.destroy")

	r.Get("/users/create", a.handle(a.UsersCreate), RequireGuest).Name("users.create")
	r.Post("/users", a.handle(a.UsersStore), RequireGuest).Name("users.store")
	r.Get("/users/login", a.handle(a.UsersLogin), RequireGuest).Name("users.login")
	r.Post("/users/login", a.handle(a.UsersAuthenticate), append([]mux.MiddlewareFunc{RequireGuest}, throttle...)...).Name("users.authenticate")
	r.Post("/users/logout", a.handle(a.UsersLogout), RequireAuth).Name("users.logout")

	r.Get("/healthz", healthHandler(opts.Health)).Name("healthz")

	if opts.Metrics != nil {
		var mw []mux.MiddlewareFunc
		if opts.MetricsAuth != nil {
			mw = append(mw, opts.MetricsAuth)
		}
		r.Register(http.MethodGet, "/metrics", opts.Metrics, mw...).Name("metrics")
	}

	if opts.Static != nil {
		r.Register(http.MethodGet, "/static/css/{file}", opts.Static).Name("static")
	}

	r.Use(opts.Middleware...)

	a.showRoute = r.GetRoute("listings.show")

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				mux.ResponseJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
		}

		mux.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
