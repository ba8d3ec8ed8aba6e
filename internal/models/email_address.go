package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailAddress is one address belonging to a user. At most one address
// per user is primary once any address exists.
type EmailAddress struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	Verified  bool      `json:"verified" db:"verified"`
	Primary   bool      `json:"primary" db:"is_primary"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
