package app

import (
	"errors"
	"net/http"

	"github.com/vitalvas/workopia/internal/view"
)

// errBadRequest marks a request whose body could not be read.
var errBadRequest = errors.New("bad request")

// handle adapts an action to net/http.
func (a *App) handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r)

		err := fn(c)
		if err == nil {
			return
		}

		if errors.Is(err, errBadRequest) {
			c.Logger().Warn().Err(err).Msg("bad request")
			a.errorPage(c, http.StatusBadRequest, "Bad request")
			return
		}

		c.Logger().Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.errorPage(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// notFound renders the 404 error page with message.
func (a *App) notFound(c *Context, message string) error {
	return a.render(c, http.StatusNotFound, "error", view.Page{
		Title:   "Not Found",
		Status:  http.StatusNotFound,
		Message: message,
	})
}

// errorPage renders the error page, falling back to plain text when the
// page itself cannot be rendered.
func (a *App) errorPage(c *Context, status int, message string) {
	err := a.render(c, status, "error", view.Page{
		Status:  status,
		Message: message,
	})
	if err != nil {
		c.Logger().Error().Err(err).Msg("render error page")
		http.Error(c.W, http.StatusText(status), status)
	}
}

// NotFoundHandler answers unmatched requests with the 404 error page.
func (a *App) NotFoundHandler() http.Handler {
	return a.handle(func(c *Context) error {
		return a.notFound(c, "Page not found")
	})
}

// PanicHandler answers a request whose handler panicked with the 500 error
// page.
func (a *App) PanicHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.errorPage(newContext(w, r), http.StatusInternalServerError, "Something went wrong")
	})
}
