package models

import (
	"time"

	"github.com/google/uuid"
)

// Account holds the per-user preferences. Exactly one row per user,
// created together with the user at signup.
type Account struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Timezone  string    `json:"timezone" db:"timezone"`
	Language  string    `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
