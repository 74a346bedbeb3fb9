package mux

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNewRouter(t *testing.T) {
	t.Run("creates router with initialized namedRoutes", func(t *testing.T) {
		r := NewRouter()
		require.NotNil(t, r)
		assert.NotNil(t, r.namedRoutes)
	})
}

func TestRouterServeHTTP(t *testing.T) {
	t.Run("dispatches to matched handler", func(t *testing.T) {
		r := NewRouter()
		r.Get("/hello", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "world")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/hello", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "world", w.Body.String())
	})

	t.Run("returns 404 for unmatched path", func(t *testing.T) {
		r := NewRouter()
		r.Get("/hello", func(_ http.ResponseWriter, _ *http.Request) {})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/notfound", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 404 for method mismatch", func(t *testing.T) {
		r := NewRouter()
		r.Get("/users", func(_ http.ResponseWriter, _ *http.Request) {})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("uses custom NotFoundHandler", func(t *testing.T) {
		r := NewRouter()
		r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "custom 404")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/notfound", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "custom 404", w.Body.String())
	})

	t.Run("sets Vars in request context", func(t *testing.T) {
		r := NewRouter()
		r.Get("/listings/{id}/edit", func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, Vars(req)["id"])
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/listings/42/edit", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, "42", w.Body.String())
	})

	t.Run("sets CurrentRoute in request context", func(t *testing.T) {
		r := NewRouter()
		var got *Route
		route := r.Get("/test", func(_ http.ResponseWriter, req *http.Request) {
			got = CurrentRoute(req)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		r.ServeHTTP(w, req)
		assert.Same(t, route, got)
	})

	t.Run("returns 404 when matched route has nil handler", func(t *testing.T) {
		r := NewRouter()
		r.Register(http.MethodGet, "/test", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rewrites request method on override", func(t *testing.T) {
		r := NewRouter()
		r.Delete("/listings/{id}", func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, req.Method)
		})

		w := httptest.NewRecorder()
		req := newFormRequest(http.MethodPost, "/listings/7", url.Values{"_method": {"delete"}})
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, http.MethodDelete, w.Body.String())
	})
}

func TestRouterMatch(t *testing.T) {
	handler := func(_ http.ResponseWriter, _ *http.Request) {}

	t.Run("extracts placeholder values", func(t *testing.T) {
		r := NewRouter()
		r.Get("/listings/{id}/edit", handler)

		var match RouteMatch
		req := httptest.NewRequest(http.MethodGet, "/listings/42/edit", nil)
		require.True(t, r.Match(req, &match))
		assert.Equal(t, map[string]string{"id": "42"}, match.Vars)
		assert.Equal(t, http.MethodGet, match.Method)
	})

	t.Run("captures any value without validation", func(t *testing.T) {
		r := NewRouter()
		r.Get("/listings/{id}", handler)

		var match RouteMatch
		req := httptest.NewRequest(http.MethodGet, "/listings/not-a-number", nil)
		require.True(t, r.Match(req, &match))
		assert.Equal(t, "not-a-number", match.Vars["id"])
	})

	t.Run("first registered route wins", func(t *testing.T) {
		r := NewRouter()
		first := r.Get("/listings/create", handler)
		r.Get("/listings/{id}", handler)

		var match RouteMatch
		req := httptest.NewRequest(http.MethodGet, "/listings/create", nil)
		require.True(t, r.Match(req, &match))
		assert.Same(t, first, match.Route)
		assert.Nil(t, match.Vars)
	})

	t.Run("placeholder route registered first shadows literal", func(t *testing.T) {
		r := NewRouter()
		first := r.Get("/listings/{id}", handler)
		r.Get("/listings/create", handler)

		var match RouteMatch
		req := httptest.NewRequest(http.MethodGet, "/listings/create", nil)
		require.True(t, r.Match(req, &match))
		assert.Same(t, first, match.Route)
		assert.Equal(t, "create", match.Vars["id"])
	})

	t.Run("segment count must be equal", func(t *testing.T) {
		r := NewRouter()
		r.Get("/listings/{id}", handler)

		tests := []string{"/listings", "/listings/1/edit", "/"}
		for _, path := range tests {
			var match RouteMatch
			req := httptest.NewRequest(http.MethodGet, path, nil)
			assert.False(t, r.Match(req, &match), path)
			assert.ErrorIs(t, match.MatchErr, ErrNotFound)
		}
	})

	t.Run("method must equal effective method", func(t *testing.T) {
		r := NewRouter()
		r.Put("/listings/{id}", handler)

		tests := []struct {
			name   string
			req    *http.Request
			expect bool
		}{
			{"plain GET", httptest.NewRequest(http.MethodGet, "/listings/1", nil), false},
			{"plain POST", httptest.NewRequest(http.MethodPost, "/listings/1", nil), false},
			{"plain PUT", httptest.NewRequest(http.MethodPut, "/listings/1", nil), true},
			{"POST with _method put", newFormRequest(http.MethodPost, "/listings/1", url.Values{"_method": {"put"}}), true},
			{"POST with _method DELETE", newFormRequest(http.MethodPost, "/listings/1", url.Values{"_method": {"DELETE"}}), false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var match RouteMatch
				assert.Equal(t, tt.expect, r.Match(tt.req, &match))
			})
		}
	})

	t.Run("literal segments are compared exactly", func(t *testing.T) {
		r := NewRouter()
		r.Get("/listings/{id}/edit", handler)

		var match RouteMatch
		req := httptest.NewRequest(http.MethodGet, "/listings/42/Edit", nil)
		assert.False(t, r.Match(req, &match))
	})

	t.Run("root pattern matches only root", func(t *testing.T) {
		r := NewRouter()
		r.Get("/", handler)

		var match RouteMatch
		assert.True(t, r.Match(httptest.NewRequest(http.MethodGet, "/", nil), &match))
		assert.False(t, r.Match(httptest.NewRequest(http.MethodGet, "/listings", nil), &match))
	})

	t.Run("leading and trailing slashes are trimmed", func(t *testing.T) {
		r := NewRouter()
		r.Get("listings/", handler)

		var match RouteMatch
		assert.True(t, r.Match(httptest.NewRequest(http.MethodGet, "/listings/", nil), &match))
		assert.True(t, r.Match(httptest.NewRequest(http.MethodGet, "/listings", nil), &match))
	})

	t.Run("custom override field", func(t *testing.T) {
		r := NewRouter()
		r.MethodOverrideField = "verb"
		r.Delete("/listings/{id}", handler)

		var match RouteMatch
		assert.True(t, r.Match(newFormRequest(http.MethodPost, "/listings/1", url.Values{"verb": {"delete"}}), &match))
		assert.False(t, r.Match(newFormRequest(http.MethodPost, "/listings/1", url.Values{"_method": {"delete"}}), &match))
	})

	t.Run("invalid pattern never matches", func(t *testing.T) {
		r := NewRouter()
		route := r.Get("/listings/id-{id}", handler)
		require.Error(t, route.GetError())

		var match RouteMatch
		assert.False(t, r.Match(httptest.NewRequest(http.MethodGet, "/listings/id-1", nil), &match))
	})
}

func TestRouterRegister(t *testing.T) {
	handler := func(_ http.ResponseWriter, _ *http.Request) {}

	t.Run("shorthands register the method", func(t *testing.T) {
		r := NewRouter()
		tests := []struct {
			route  *Route
			method string
		}{
			{r.Get("/a", handler), http.MethodGet},
			{r.Post("/a", handler), http.MethodPost},
			{r.Put("/a", handler), http.MethodPut},
			{r.Patch("/a", handler), http.MethodPatch},
			{r.Delete("/a", handler), http.MethodDelete},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.method, tt.route.GetMethod())
		}
	})

	t.Run("upper-cases method", func(t *testing.T) {
		r := NewRouter()
		route := r.Register("get", "/a", http.HandlerFunc(handler))
		assert.Equal(t, http.MethodGet, route.GetMethod())
	})

	t.Run("keeps duplicates in order", func(t *testing.T) {
		r := NewRouter()
		r.Get("/a", handler)
		r.Get("/a", handler)
		assert.Len(t, r.Routes(), 2)
	})
}

func TestRouterRouteMiddleware(t *testing.T) {
	t.Run("runs route middleware in order before handler", func(t *testing.T) {
		r := NewRouter()
		var order []string

		mw := func(name string) MiddlewareFunc {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r.Use(mw("router"))
		r.Get("/test", func(_ http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		}, mw("first"), mw("second"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, []string{"router", "first", "second", "handler"}, order)
	})

	t.Run("middleware can halt with redirect", func(t *testing.T) {
		r := NewRouter()
		called := false

		guard := func(_ http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				Redirect(w, req, "/users/login")
			})
		}

		r.Get("/listings/create", func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		}, guard)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/listings/create", nil))
		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users/login", w.Header().Get("Location"))
	})

	t.Run("route Use appends after registration middleware", func(t *testing.T) {
		r := NewRouter()
		var order []string

		mw := func(name string) MiddlewareFunc {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r.Get("/test", func(_ http.ResponseWriter, _ *http.Request) {}, mw("a")).Use(mw("b"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, []string{"a", "b"}, order)
	})
}

func TestRouterWalk(t *testing.T) {
	handler := func(_ http.ResponseWriter, _ *http.Request) {}

	t.Run("visits routes in order", func(t *testing.T) {
		r := NewRouter()
		r.Get("/", handler)
		r.Get("/listings", handler)
		r.Post("/listings", handler)

		var visited []string
		err := r.Walk(func(route *Route, _ *Router) error {
			visited = append(visited, route.GetMethod()+" "+route.GetPathTemplate())
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"GET /", "GET /listings", "POST /listings"}, visited)
	})

	t.Run("stops on error", func(t *testing.T) {
		r := NewRouter()
		r.Get("/a", handler)
		r.Get("/b", handler)

		stop := fmt.Errorf("stop")
		count := 0
		err := r.Walk(func(_ *Route, _ *Router) error {
			count++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, count)
	})
}

func TestRouterGetRoute(t *testing.T) {
	r := NewRouter()
	route := r.Get("/listings/{id}", func(_ http.ResponseWriter, _ *http.Request) {}).Name("listings.show")

	assert.Same(t, route, r.GetRoute("listings.show"))
	assert.Nil(t, r.GetRoute("missing"))
}
