package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vitalvas/workopia/internal/database"
)

// ErrDuplicateEmail is returned by UserStore.Create when the email is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const userColumns = `id, name, email, password,
	COALESCE(city, '') AS city, COALESCE(state, '') AS state, created_at`

// UserStore reads and writes user accounts.
type UserStore struct {
	db *database.DB
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail returns the user registered with email, or ErrNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	user, err := database.FetchOne[User](ctx, s.db,
		"SELECT "+userColumns+" FROM users WHERE email = @email",
		database.Params{"email": email},
	)
	if errors.Is(err, database.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

// Create inserts u and returns the generated id. u.Password must already be
// hashed.
func (s *UserStore) Create(ctx context.Context, u User) (int64, error) {
	columns := []string{"name", "email", "city", "state", "password"}

	id, err := s.db.Insert(ctx, database.InsertStatement("users", columns), database.Params{
		"name":     u.Name,
		"email":    u.Email,
		"city":     database.NullIfEmpty(u.City),
		"state":    database.NullIfEmpty(u.State),
		"password": u.Password,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return 0, ErrDuplicateEmail
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}
