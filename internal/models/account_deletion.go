package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountDeletion marks a user for permanent removal. Rows are written
// when a user requests deletion and consumed by a separate expunge
// process after the configured grace period. The email is denormalized
// so the expunge process can still notify after the user row is gone.
type AccountDeletion struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Email    string    `json:"email" db:"email"`
	MarkedAt time.Time `json:"marked_at" db:"marked_at"`
}
