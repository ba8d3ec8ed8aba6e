package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ConfirmationService manages email verification tokens: issuing them
// after signup or an email change, and consuming them to mark the
// address verified and primary.
type ConfirmationService interface {
	Start(ctx context.Context, addr *models.EmailAddress) error
	Confirm(ctx context.Context, token string) (*models.EmailAddress, error)
}

type confirmationService struct {
	db            repositories.Database
	confirmations repositories.EmailConfirmationRepository
	emails        repositories.EmailAddressRepository
	mailer        *EmailService
	expiry        time.Duration
	now           func() time.Time
}

func NewConfirmationService(db repositories.Database, confirmations repositories.EmailConfirmationRepository,
	emails repositories.EmailAddressRepository, mailer *EmailService, expiry time.Duration) ConfirmationService {
	return &confirmationService{
		db:            db,
		confirmations: confirmations,
		emails:        emails,
		mailer:        mailer,
		expiry:        expiry,
		now:           time.Now,
	}
}

// Start issues a confirmation token for the address and mails the
// verification link.
func (s *confirmationService) Start(ctx context.Context, addr *models.EmailAddress) error {
	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("generate confirmation token: %w", err)
	}

	now := s.now()
	confirmation := &models.EmailConfirmation{
		ID:             uuid.New(),
		EmailAddressID: addr.ID,
		Token:          token,
		ExpiresAt:      now.Add(s.expiry),
		CreatedAt:      now,
	}
	if err := s.confirmations.Create(ctx, confirmation); err != nil {
		return fmt.Errorf("store confirmation: %w", err)
	}

	return s.mailer.SendConfirmation(ctx, addr.Email, token)
}

// Confirm consumes a token, marking its address verified and primary.
// Unknown, expired and already consumed tokens map to
// ErrInvalidConfirmationToken.
func (s *confirmationService) Confirm(ctx context.Context, token string) (*models.EmailAddress, error) {
	rec, err := s.confirmations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidConfirmationToken
		}
		return nil, fmt.Errorf("look up confirmation token: %w", err)
	}
	if rec.ConfirmedAt != nil || s.now().After(rec.ExpiresAt) {
		return nil, ErrInvalidConfirmationToken
	}

	addr, err := s.emails.GetByID(ctx, rec.EmailAddressID)
	if err != nil {
		return nil, fmt.Errorf("look up email address: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin confirmation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.confirmations.WithTx(tx).MarkConfirmed(ctx, rec.ID); err != nil {
		return nil, fmt.Errorf("mark confirmation consumed: %w", err)
	}
	emailsTx := s.emails.WithTx(tx)
	if err := emailsTx.MarkVerified(ctx, addr.ID); err != nil {
		return nil, fmt.Errorf("mark address verified: %w", err)
	}
	if err := emailsTx.SetPrimary(ctx, addr.UserID, addr.ID); err != nil {
		return nil, fmt.Errorf("promote address to primary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit confirmation transaction: %w", err)
	}

	addr.Verified = true
	addr.Primary = true
	return addr, nil
}
