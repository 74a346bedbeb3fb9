package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vitalvas/workopia/internal/models"
	"github.com/vitalvas/workopia/internal/session"
	"github.com/vitalvas/workopia/internal/validation"
	"github.com/vitalvas/workopia/internal/view"
)

const listingNotFound = "Listing not found"

// listingURL reverses the listings.show route. The literal path is used
// when Routes has not been built.
func (a *App) listingURL(id int64) string {
	idStr := strconv.FormatInt(id, 10)

	if a.showRoute != nil {
		if u, err := a.showRoute.URL("id", idStr); err == nil {
			return u.String()
		}
	}

	return "/listings/" + idStr
}

// listingID parses the id path parameter. Ids that are not positive
// integers name no listing.
func listingID(c *Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// ListingsIndex shows every listing, newest first.
func (a *App) ListingsIndex(c *Context) error {
	listings, err := a.listings.Latest(c.R.Context(), 0)
	if err != nil {
		return fmt.Errorf("listings index: %w", err)
	}

	return a.render(c, http.StatusOK, "listings/index", view.Page{
		Title:    "All Jobs",
		Listings: listings,
	})
}

// ListingsCreate shows the empty listing form.
func (a *App) ListingsCreate(c *Context) error {
	return a.render(c, http.StatusOK, "listings/create", view.Page{Title: "Create Listing"})
}

// ListingsShow shows one listing.
func (a *App) ListingsShow(c *Context) error {
	id, ok := listingID(c)
	if !ok {
		return a.notFound(c, listingNotFound)
	}

	listing, err := a.listings.Get(c.R.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		return a.notFound(c, listingNotFound)
	}
	if err != nil {
		return fmt.Errorf("show listing: %w", err)
	}

	return a.render(c, http.StatusOK, "listings/show", view.Page{
		Title:   listing.Title,
		Listing: &listing,
		IsOwner: IsOwner(c.User(), listing.UserID),
	})
}

// ListingsStore validates the submitted form and creates a listing owned
// by the signed-in user.
func (a *App) ListingsStore(c *Context) error {
	form, err := c.Form()
	if err != nil {
		return err
	}

	values := validation.Sanitize(form, models.ListingFields)

	if errs := validation.ListingSchema.Validate(values); errs != nil {
		return a.render(c, http.StatusUnprocessableEntity, "listings/create", view.Page{
			Title:  "Create Listing",
			Errors: errs,
			Values: values,
		})
	}

	user := c.User()
	if user == nil {
		return c.Redirect("/users/login")
	}

	id, err := a.listings.Create(c.R.Context(), user.ID, values)
	if err != nil {
		return fmt.Errorf("store listing: %w", err)
	}

	c.Logger().Info().Int64("listing_id", id).Int64("user_id", user.ID).Msg("listing created")
	c.Flash(session.FlashSuccess, "Listing Created Successfully")

	return c.Redirect("/listings")
}

// ownedListing loads the listing named by the id parameter and checks that
// the signed-in user owns it. When it returns ok == false the response has
// already been written: a 404 page, or a redirect to the listing with an
// error flash naming action.
func (a *App) ownedListing(c *Context, action string) (models.Listing, bool, error) {
	id, ok := listingID(c)
	if !ok {
		return models.Listing{}, false, a.notFound(c, listingNotFound)
	}

	listing, err := a.listings.Get(c.R.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		return models.Listing{}, false, a.notFound(c, listingNotFound)
	}
	if err != nil {
		return models.Listing{}, false, fmt.Errorf("%s listing: %w", action, err)
	}

	if !IsOwner(c.User(), listing.UserID) {
		c.Flash(session.FlashError, "You are not authorized to "+action+" this listing")
		return models.Listing{}, false, c.Redirect(a.listingURL(listing.ID))
	}

	return listing, true, nil
}

// ListingsEdit shows the edit form to the listing's owner.
func (a *App) ListingsEdit(c *Context) error {
	listing, ok, err := a.ownedListing(c, "edit")
	if !ok {
		return err
	}

	return a.render(c, http.StatusOK, "listings/edit", view.Page{
		Title:   "Edit Listing",
		Listing: &listing,
		Values:  listing.Values(),
	})
}

// ListingsUpdate validates the submitted form and updates the listing. On
// validation errors the form is shown again with the submitted values.
func (a *App) ListingsUpdate(c *Context) error {
	listing, ok, err := a.ownedListing(c, "update")
	if !ok {
		return err
	}

	form, err := c.Form()
	if err != nil {
		return err
	}

	submitted := validation.Sanitize(form, models.ListingFields)

	merged := listing.Values()
	for k, v := range submitted {
		merged[k] = v
	}

	if errs := validation.ListingSchema.Validate(merged); errs != nil {
		return a.render(c, http.StatusUnprocessableEntity, "listings/edit", view.Page{
			Title:   "Edit Listing",
			Listing: &listing,
			Errors:  errs,
			Values:  merged,
		})
	}

	if err := a.listings.Update(c.R.Context(), listing.ID, submitted); err != nil {
		return fmt.Errorf("update listing: %w", err)
	}

	c.Logger().Info().Int64("listing_id", listing.ID).Msg("listing updated")
	c.Flash(session.FlashSuccess, "Listing Updated")

	return c.Redirect(a.listingURL(listing.ID))
}

// ListingsDestroy deletes the listing.
func (a *App) ListingsDestroy(c *Context) error {
	listing, ok, err := a.ownedListing(c, "delete")
	if !ok {
		return err
	}

	if err := a.listings.Delete(c.R.Context(), listing.ID); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	c.Logger().Info().Int64("listing_id", listing.ID).Msg("listing deleted")
	c.Flash(session.FlashSuccess, "Listing deleted successfully")

	return c.Redirect("/listings")
}

// ListingsSearch shows the listings matching the keywords and location
// query parameters.
func (a *App) ListingsSearch(c *Context) error {
	keywords := strings.TrimSpace(c.Query("keywords"))
	location := strings.TrimSpace(c.Query("location"))

	listings, err := a.listings.Search(c.R.Context(), keywords, location)
	if err != nil {
		return fmt.Errorf("search listings: %w", err)
	}

	return a.render(c, http.StatusOK, "listings/index", view.Page{
		Title:    "Search",
		Listings: listings,
		Keywords: keywords,
		Location: location,
	})
}
