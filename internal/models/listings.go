package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitalvas/workopia/internal/database"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// HomeListingLimit is the number of newest listings shown on the home page.
const HomeListingLimit = 6

const listingColumns = `id, user_id, title,
	COALESCE(description, '') AS description, COALESCE(salary, '') AS salary,
	COALESCE(tags, '') AS tags, COALESCE(company, '') AS company,
	COALESCE(address, '') AS address, COALESCE(city, '') AS city,
	COALESCE(state, '') AS state, COALESCE(phone, '') AS phone,
	COALESCE(email, '') AS email, COALESCE(requirements, '') AS requirements,
	COALESCE(benefits, '') AS benefits, created_at`

// ListingStore reads and writes listings.
type ListingStore struct {
	db *database.DB
}

// NewListingStore returns a ListingStore backed by db.
func NewListingStore(db *database.DB) *ListingStore {
	return &ListingStore{db: db}
}

// Latest returns up to limit listings, newest first. A limit of zero or
// less returns every listing.
func (s *ListingStore) Latest(ctx context.Context, limit int) ([]Listing, error) {
	sql := "SELECT " + listingColumns + " FROM listings ORDER BY created_at DESC, id DESC"
	params := database.Params{}

	if limit > 0 {
		sql += " LIMIT @limit"
		params["limit"] = limit
	}

	listings, err := database.FetchAll[Listing](ctx, s.db, sql, params)
	if err != nil {
		return nil, fmt.Errorf("latest listings: %w", err)
	}

	return listings, nil
}

// Get returns the listing with the given id, or ErrNotFound.
func (s *ListingStore) Get(ctx context.Context, id int64) (Listing, error) {
	listing, err := database.FetchOne[Listing](ctx, s.db,
		"SELECT "+listingColumns+" FROM listings WHERE id = @id",
		database.Params{"id": id},
	)
	if errors.Is(err, database.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	if err != nil {
		return Listing{}, fmt.Errorf("get listing %d: %w", id, err)
	}

	return listing, nil
}

// Search matches keywords case-insensitively against title, description,
// tags and company, and location against city and state. Wildcards typed
// by the user match literally.
func (s *ListingStore) Search(ctx context.Context, keywords, location string) ([]Listing, error) {
	sql := "SELECT " + listingColumns + ` FROM listings
		WHERE (title ILIKE @keywords OR description ILIKE @keywords
			OR tags ILIKE @keywords OR company ILIKE @keywords)
		AND (city ILIKE @location OR state ILIKE @location)
		ORDER BY created_at DESC, id DESC`

	listings, err := database.FetchAll[Listing](ctx, s.db, sql, database.Params{
		"keywords": "%" + database.EscapeLike(keywords) + "%",
		"location": "%" + database.EscapeLike(location) + "%",
	})
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	return listings, nil
}

// Create inserts a listing owned by userID from the allow-listed values and
// returns its id. Empty strings are stored as NULL.
func (s *ListingStore) Create(ctx context.Context, userID int64, values map[string]string) (int64, error) {
	columns, params := listingParams(values)
	columns = append(columns, "user_id")
	params["user_id"] = userID

	id, err := s.db.Insert(ctx, database.InsertStatement("listings", columns), params)
	if err != nil {
		return 0, fmt.Errorf("create listing: %w", err)
	}

	return id, nil
}

// Update overwrites the allow-listed values of the listing with the given id.
func (s *ListingStore) Update(ctx context.Context, id int64, values map[string]string) error {
	columns, params := listingParams(values)
	if len(columns) == 0 {
		return nil
	}
	params["id"] = id

	if _, err := s.db.Exec(ctx, database.UpdateStatement("listings", columns, "id"), params); err != nil {
		return fmt.Errorf("update listing %d: %w", id, err)
	}

	return nil
}

// Delete removes the listing with the given id.
func (s *ListingStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM listings WHERE id = @id", database.Params{"id": id}); err != nil {
		return fmt.Errorf("delete listing %d: %w", id, err)
	}

	return nil
}

// listingParams keeps only ListingFields present in values, in ListingFields
// order.
func listingParams(values map[string]string) ([]string, database.Params) {
	columns := make([]string, 0, len(ListingFields)+1)
	params := make(database.Params, len(ListingFields)+1)

	for _, field := range ListingFields {
		v, ok := values[field]
		if !ok {
			continue
		}
		columns = append(columns, field)
		params[field] = database.NullIfEmpty(v)
	}

	return columns, params
}
