// Package models holds the listing and user records and their
// PostgreSQL-backed stores.
package models

import (
	"time"
)

// Listing is one job posting.
type Listing struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Salary       string    `db:"salary"`
	Tags         string    `db:"tags"`
	Company      string    `db:"company"`
	Address      string    `db:"address"`
	City         string    `db:"city"`
	State        string    `db:"state"`
	Phone        string    `db:"phone"`
	Email        string    `db:"email"`
	Requirements string    `db:"requirements"`
	Benefits     string    `db:"benefits"`
	CreatedAt    time.Time `db:"created_at"`
}

// ListingFields lists the columns a user may set on a listing, in form
// order. Anything else submitted with the form is ignored.
var ListingFields = []string{
	"title", "description", "salary", "tags", "company", "address",
	"city", "state", "phone", "email", "requirements", "benefits",
}

// Values returns the listing's editable fields keyed by column name.
func (l Listing) Values() map[string]string {
	return map[string]string{
		"title":        l.Title,
		"description":  l.Description,
		"salary":       l.Salary,
		"tags":         l.Tags,
		"company":      l.Company,
		"address":      l.Address,
		"city":         l.City,
		"state":        l.State,
		"phone":        l.Phone,
		"email":        l.Email,
		"requirements": l.Requirements,
		"benefits":     l.Benefits,
	}
}

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	City      string    `db:"city"`
	State     string    `db:"state"`
	CreatedAt time.Time `db:"created_at"`
}

// SessionUser is the public part of a user kept in the session.
type SessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
	State string `json:"state"`
}

// SessionUser returns the fields of u that are safe to keep in a session.
func (u User) SessionUser() SessionUser {
	return SessionUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		City:  u.City,
		State: u.State,
	}
}
