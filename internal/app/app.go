// Package app holds the controllers of the site: the home page, listing
// CRUD and search, and user registration and sign-in. Handlers receive a
// Context carrying the request, its path parameters, its form and the
// visitor's session.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/vitalvas/workopia/internal/models"
	"github.com/vitalvas/workopia/internal/session"
	"github.com/vitalvas/workopia/internal/view"
	"github.com/vitalvas/workopia/mux"
)

// ListingStore reads and writes listings.
type ListingStore interface {
	Latest(ctx context.Context, limit int) ([]models.Listing, error)
	Get(ctx context.Context, id int64) (models.Listing, error)
	Search(ctx context.Context, keywords, location string) ([]models.Listing, error)
	Create(ctx context.Context, userID int64, values map[string]string) (int64, error)
	Update(ctx context.Context, id int64, values map[string]string) error
	Delete(ctx context.Context, id int64) error
}

// UserStore reads and writes user accounts.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) (int64, error)
}

// SessionControl replaces or ends the visitor's session.
type SessionControl interface {
	Renew(w http.ResponseWriter, r *http.Request) error
	Destroy(w http.ResponseWriter, r *http.Request) error
}

// Renderer writes a named page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// Config wires an App.
type Config struct {
	Listings ListingStore
	Users    UserStore
	Sessions SessionControl
	Views    Renderer

	// BcryptCost is the cost used when hashing new passwords.
	// Defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// App serves the site.
type App struct {
	listings   ListingStore
	users      UserStore
	sessions   SessionControl
	views      Renderer
	bcryptCost int

	// showRoute is set by Routes and reversed for redirects to a listing.
	showRoute *mux.Route

	// dummyHash is compared against when the email is unknown, so a failed
	// sign-in costs the same whether or not the account exists.
	dummyHash []byte
}

// New returns an App for cfg.
func New(cfg Config) (*App, error) {
	switch {
	case cfg.Listings == nil, cfg.Users == nil:
		return nil, errors.New("app: listing and user stores are required")
	case cfg.Sessions == nil:
		return nil, errors.New("app: session control is required")
	case cfg.Views == nil:
		return nil, errors.New("app: renderer is required")
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("workopia-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("app: bcrypt: %w", err)
	}

	return &App{
		listings:   cfg.Listings,
		users:      cfg.Users,
		sessions:   cfg.Sessions,
		views:      cfg.Views,
		bcryptCost: cost,
		dummyHash:  dummy,
	}, nil
}

// render fills the per-request parts of page (signed-in user and pending
// flash messages) and writes it.
func (a *App) render(c *Context, status int, name string, page view.Page) error {
	page.User = c.User()

	if c.Session != nil {
		page.Flash = view.Flash{
			Success: c.Session.Flash(session.FlashSuccess),
			Error:   c.Session.Flash(session.FlashError),
		}
	}

	return a.views.Render(c.W, status, name, page)
}
