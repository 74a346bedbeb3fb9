package app

import (
	"github.com/vitalvas/workopia/internal/models"
)

// IsOwner reports whether user owns a resource belonging to ownerID.
// Guests own nothing.
func IsOwner(user *models.SessionUser, ownerID int64) bool {
	return user != nil && user.ID == ownerID
}
