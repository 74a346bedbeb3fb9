// Package session keeps per-visitor state, such as the signed-in user and
// one-shot flash messages, in a server-side store keyed by a cookie.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrStoreClosed is returned when operations are attempted on a closed store.
var ErrStoreClosed = errors.New("session store is closed")

// Store persists encoded sessions. Implementations must be safe for
// concurrent use.
type Store interface {
	// Load returns the stored data, or (nil, nil) when the session does not
	// exist or has expired.
	Load(ctx context.Context, id string) ([]byte, error)

	// Save stores data for id, replacing any previous value. The record
	// expires after ttl.
	Save(ctx context.Context, id string, data []byte, ttl time.Duration) error

	// Delete removes id. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
