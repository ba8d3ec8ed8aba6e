package models

import (
	"time"

	"github.com/google/uuid"
)

// SignupCode is an invitation token that gates or pre-verifies account
// creation. MaxUses of zero means unlimited redemptions.
type SignupCode struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Code      string     `json:"code" db:"code"`
	Email     *string    `json:"email" db:"email"`
	InviterID *uuid.UUID `json:"inviter_id" db:"inviter_id"`
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"`
	MaxUses   int        `json:"max_uses" db:"max_uses"`
	UseCount  int        `json:"use_count" db:"use_count"`
	Notes     *string    `json:"notes" db:"notes"`
	SentAt    *time.Time `json:"sent_at" db:"sent_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Expired reports whether the code is past its expiry at the given time.
// Codes without an expiry never expire.
func (c *SignupCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Exhausted reports whether the code has no redemptions left.
func (c *SignupCode) Exhausted() bool {
	return c.MaxUses > 0 && c.UseCount >= c.MaxUses
}
