package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LanguageChoices are the locales a user can select.
var LanguageChoices = []string{
	"de", "en-gb", "en-us", "es", "fr", "it", "ja", "nl", "pt", "ru", "zh-cn",
}

// SettingsView is the settings payload returned to the user.
type SettingsView struct {
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
	Language string `json:"language"`
}

// SettingsUpdate carries the optional fields of a settings change.
// Nil pointers leave the current value untouched.
type SettingsUpdate struct {
	Email    *string
	Timezone *string
	Language *string
	// ConfirmEmail skips the re-confirmation flow for email changes and
	// promotes the new address immediately.
	ConfirmEmail bool
}

type SettingsService interface {
	SettingsFor(ctx context.Context, userID uuid.UUID) (*SettingsView, error)
	Update(ctx context.Context, userID uuid.UUID, update SettingsUpdate) (*SettingsView, error)
}

type settingsService struct {
	db            repositories.Database
	accounts      repositories.AccountRepository
	emails        repositories.EmailAddressRepository
	confirmations ConfirmationService
	now           func() time.Time
}

func NewSettingsService(db repositories.Database, accounts repositories.AccountRepository,
	emails repositories.EmailAddressRepository, confirmations ConfirmationService) SettingsService {
	return &settingsService{
		db:            db,
		accounts:      accounts,
		emails:        emails,
		confirmations: confirmations,
		now:           time.Now,
	}
}

func (s *settingsService) SettingsFor(ctx context.Context, userID uuid.UUID) (*SettingsView, error) {
	account, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	primary, err := s.emails.GetPrimary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up primary email: %w", err)
	}
	return &SettingsView{
		Email:    primary.Email,
		Timezone: account.Timezone,
		Language: account.Language,
	}, nil
}

// Update validates every supplied field before persisting anything, so a
// rejected value never results in a partial update. Choice failures are
// collected per field into FieldErrors.
func (s *settingsService) Update(ctx context.Context, userID uuid.UUID, update SettingsUpdate) (*SettingsView, error) {
	fieldErrs := FieldErrors{}
	if update.Timezone != nil && !ValidTimezone(*update.Timezone) {
		fieldErrs.Add("timezone", fmt.Sprintf("%q is not a valid choice.", *update.Timezone))
	}
	if update.Language != nil && !ValidLanguage(*update.Language) {
		fieldErrs.Add("language", fmt.Sprintf("%q is not a valid choice.", *update.Language))
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	if update.Email != nil {
		if err := s.updateEmail(ctx, userID, *update.Email, update.ConfirmEmail); err != nil {
			return nil, err
		}
	}

	if update.Timezone != nil || update.Language != nil {
		account, err := s.accounts.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("look up account: %w", err)
		}
		if update.Timezone != nil {
			account.Timezone = *update.Timezone
		}
		if update.Language != nil {
			account.Language = *update.Language
		}
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, fmt.Errorf("update account: %w", err)
		}
	}

	return s.SettingsFor(ctx, userID)
}

// updateEmail records a new address for the user. Unless confirm is set
// the address stays unverified and a confirmation email is sent; the
// primary address only changes once the new one is confirmed.
func (s *settingsService) updateEmail(ctx context.Context, userID uuid.UUID, newEmail string, confirm bool) error {
	primary, err := s.emails.GetPrimary(ctx, userID)
	if err != nil {
		return fmt.Errorf("look up primary email: %w", err)
	}
	if strings.EqualFold(primary.Email, newEmail) {
		return nil
	}

	addr, err := s.emails.GetByEmail(ctx, newEmail)
	switch {
	case err == nil:
		if addr.UserID != userID {
			return ErrEmailTaken
		}
	case errors.Is(err, pgx.ErrNoRows):
		addr = &models.EmailAddress{
			ID:        uuid.New(),
			UserID:    userID,
			Email:     newEmail,
			Verified:  false,
			Primary:   false,
			CreatedAt: s.now(),
		}
		if err := s.emails.Create(ctx, addr); err != nil {
			if repositories.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create email address: %w", err)
		}
	default:
		return fmt.Errorf("look up email address: %w", err)
	}

	if !confirm {
		return s.confirmations.Start(ctx, addr)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin email change transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	emailsTx := s.emails.WithTx(tx)
	if err := emailsTx.MarkVerified(ctx, addr.ID); err != nil {
		return fmt.Errorf("mark address verified: %w", err)
	}
	if err := emailsTx.SetPrimary(ctx, userID, addr.ID); err != nil {
		return fmt.Errorf("promote address to primary: %w", err)
	}
	return tx.Commit(ctx)
}

// ValidTimezone reports whether name is a known IANA zone. The zone
// database shipped with the runtime is the choice set.
func ValidTimezone(name string) bool {
	if name == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// ValidLanguage reports whether code is one of the offered locales.
func ValidLanguage(code string) bool {
	for _, choice := range LanguageChoices {
		if choice == code {
			return true
		}
	}
	return false
}
