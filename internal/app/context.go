package app

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/vitalvas/workopia/internal/logging"
	"github.com/vitalvas/workopia/internal/models"
	"github.com/vitalvas/workopia/internal/session"
	"github.com/vitalvas/workopia/mux"
)

// sessionUserKey is the session key holding the signed-in user.
const sessionUserKey = "user"

// Context is the per-request state handed to every action.
type Context struct {
	W       http.ResponseWriter
	R       *http.Request
	Params  map[string]string
	Session *session.Session
}

// HandlerFunc is an action. A returned error is logged and answered with
// the 500 error page.
type HandlerFunc func(c *Context) error

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		W:       w,
		R:       r,
		Params:  mux.Vars(r),
		Session: session.FromContext(r.Context()),
	}
}

// Param returns the path parameter name, or the empty string.
func (c *Context) Param(name string) string {
	return c.Params[name]
}

// Form parses and returns the request form. For POST bodies the posted
// values take precedence over the query string.
func (c *Context) Form() (url.Values, error) {
	if err := c.R.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w: %w", errBadRequest, err)
	}
	return c.R.Form, nil
}

// Query returns the query string value for key.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// User returns the signed-in user, or nil for a guest.
func (c *Context) User() *models.SessionUser {
	return currentUser(c.Session)
}

// SignIn stores u as the signed-in user.
func (c *Context) SignIn(u models.SessionUser) error {
	if c.Session == nil {
		return errors.New("sign in: no session")
	}
	return c.Session.Set(sessionUserKey, u)
}

// Flash queues a one-shot message for the next rendered page.
func (c *Context) Flash(category, message string) {
	if c.Session != nil {
		c.Session.SetFlash(category, message)
	}
}

// Redirect answers with 303 See Other to target.
func (c *Context) Redirect(target string) error {
	mux.Redirect(c.W, c.R, target)
	return nil
}

// Logger returns the request-scoped logger.
func (c *Context) Logger() *zerolog.Logger {
	return logging.FromRequest(c.R)
}

func currentUser(s *session.Session) *models.SessionUser {
	if s == nil {
		return nil
	}

	var u models.SessionUser
	ok, err := s.Get(sessionUserKey, &u)
	if !ok || err != nil || u.ID == 0 {
		return nil
	}

	return &u
}
