package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailConfirmation is a one-shot token emailed to an address so its
// owner can prove control of it.
type EmailConfirmation struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	EmailAddressID uuid.UUID  `json:"email_address_id" db:"email_address_id"`
	Token          string     `json:"-" db:"token"`
	ExpiresAt      time.Time  `json:"expires_at" db:"expires_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at" db:"confirmed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
