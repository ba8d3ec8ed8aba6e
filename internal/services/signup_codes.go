package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// SignupCodeParams are the inputs for creating an invitation code.
// A zero ExpiryHours falls back to the configured default; a zero
// MaxUses means unlimited redemptions.
type SignupCodeParams struct {
	Email       string
	Code        string
	CheckExists bool
	ExpiryHours int
	MaxUses     int
	Notes       string
	InviterID   *uuid.UUID
}

type SignupCodeService interface {
	Create(ctx context.Context, params SignupCodeParams) (*models.SignupCode, error)
	CheckCode(ctx context.Context, code string) (*models.SignupCode, error)
	Send(ctx context.Context, code *models.SignupCode, signupURL string) error
}

type signupCodeService struct {
	codes              repositories.SignupCodeRepository
	users              repositories.UserRepository
	mailer             *EmailService
	defaultExpiryHours int
	now                func() time.Time
}

func NewSignupCodeService(codes repositories.SignupCodeRepository, users repositories.UserRepository, mailer *EmailService, defaultExpiryHours int) SignupCodeService {
	return &signupCodeService{
		codes:              codes,
		users:              users,
		mailer:             mailer,
		defaultExpiryHours: defaultExpiryHours,
		now:                time.Now,
	}
}

// Create generates a new invitation code. When the params carry an email
// address, creation fails with ErrSignupCodeExists if an active unused
// code already exists for it, and with ErrEmailTaken when CheckExists is
// set and the address already belongs to a user.
func (s *signupCodeService) Create(ctx context.Context, params SignupCodeParams) (*models.SignupCode, error) {
	if params.Email != "" {
		if params.CheckExists {
			taken, err := s.users.ExistsByEmail(ctx, params.Email)
			if err != nil {
				return nil, fmt.Errorf("check existing user for %s: %w", params.Email, err)
			}
			if taken {
				return nil, ErrEmailTaken
			}
		}

		active, err := s.codes.HasActiveForEmail(ctx, params.Email)
		if err != nil {
			return nil, fmt.Errorf("check active codes for %s: %w", params.Email, err)
		}
		if active {
			return nil, ErrSignupCodeExists
		}
	}

	token := params.Code
	if token == "" {
		var err error
		token, err = generateToken()
		if err != nil {
			return nil, fmt.Errorf("generate signup code: %w", err)
		}
	}

	now := s.now()
	code := &models.SignupCode{
		ID:        uuid.New(),
		Code:      token,
		MaxUses:   params.MaxUses,
		InviterID: params.InviterID,
		CreatedAt: now,
	}
	if params.Email != "" {
		code.Email = &params.Email
	}
	if params.Notes != "" {
		code.Notes = &params.Notes
	}
	expiryHours := params.ExpiryHours
	if expiryHours == 0 {
		expiryHours = s.defaultExpiryHours
	}
	if expiryHours > 0 {
		expiresAt := now.Add(time.Duration(expiryHours) * time.Hour)
		code.ExpiresAt = &expiresAt
	}

	if err := s.codes.Create(ctx, code); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrSignupCodeExists
		}
		return nil, fmt.Errorf("create signup code: %w", err)
	}
	return code, nil
}

// CheckCode looks up a code and verifies it is still redeemable. Unknown,
// expired and exhausted codes all map to ErrInvalidSignupCode.
func (s *signupCodeService) CheckCode(ctx context.Context, code string) (*models.SignupCode, error) {
	rec, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidSignupCode
		}
		return nil, fmt.Errorf("look up signup code: %w", err)
	}
	if rec.Expired(s.now()) || rec.Exhausted() {
		return nil, ErrInvalidSignupCode
	}
	return rec, nil
}

// Send mails the invitation to the code's bound email address.
func (s *signupCodeService) Send(ctx context.Context, code *models.SignupCode, signupURL string) error {
	if code.Email == nil {
		return errors.New("signup code has no email address to send to")
	}
	if err := s.mailer.SendInvite(ctx, *code.Email, code.Code, signupURL); err != nil {
		return err
	}
	if err := s.codes.MarkSent(ctx, code.ID); err != nil {
		logrus.Warnf("failed to mark signup code %s as sent: %v", code.ID, err)
	}
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
