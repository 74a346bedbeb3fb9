package app

import (
	"fmt"
	"net/http"

	"github.com/vitalvas/workopia/internal/models"
	"github.com/vitalvas/workopia/internal/view"
)

// HomeIndex shows the newest listings.
func (a *App) HomeIndex(c *Context) error {
	listings, err := a.listings.Latest(c.R.Context(), models.HomeListingLimit)
	if err != nil {
		return fmt.Errorf("home: %w", err)
	}

	return a.render(c, http.StatusOK, "home", view.Page{Listings: listings})
}
