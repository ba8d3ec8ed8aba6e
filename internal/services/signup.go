package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"accountd/internal/config"
	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SignupObserver is notified after a signup transaction commits.
// Observers decouple the signup flow from side effects such as welcome
// emails.
type SignupObserver func(ctx context.Context, user *models.User, addr *models.EmailAddress)

type SignupService interface {
	// Signup creates the user, account and email address rows in a
	// single transaction, redeeming the given code if any. Either all
	// rows exist afterwards or none do.
	Signup(ctx context.Context, username, email, password string, code *models.SignupCode) (*models.User, *models.EmailAddress, error)
	Subscribe(observer SignupObserver)
}

type signupService struct {
	db       repositories.Database
	users    repositories.UserRepository
	accounts repositories.AccountRepository
	emails   repositories.EmailAddressRepository
	codes    repositories.SignupCodeRepository
	policy   config.AccountPolicy
	now      func() time.Time

	mu        sync.Mutex
	observers []SignupObserver
}

func NewSignupService(db repositories.Database, users repositories.UserRepository, accounts repositories.AccountRepository,
	emails repositories.EmailAddressRepository, codes repositories.SignupCodeRepository, policy config.AccountPolicy) SignupService {
	return &signupService{
		db:       db,
		users:    users,
		accounts: accounts,
		emails:   emails,
		codes:    codes,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *signupService) Subscribe(observer SignupObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

func (s *signupService) Signup(ctx context.Context, username, email, password string, code *models.SignupCode) (*models.User, *models.EmailAddress, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// A code bound to the signup email proves the address was reachable,
	// so confirmation is skipped.
	verified := code != nil && code.Email != nil && strings.EqualFold(*code.Email, email)

	addr := &models.EmailAddress{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     email,
		Verified:  verified,
		Primary:   true,
		CreatedAt: now,
	}

	account := &models.Account{
		ID:        uuid.New(),
		UserID:    user.ID,
		Timezone:  s.policy.DefaultTimezone,
		Language:  s.policy.DefaultLanguage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin signup transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, nil, ErrUserExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.accounts.WithTx(tx).Create(ctx, account); err != nil {
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	if err := s.emails.WithTx(tx).Create(ctx, addr); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create email address: %w", err)
	}

	if code != nil {
		if err := s.codes.WithTx(tx).Redeem(ctx, code.ID); err != nil {
			if errors.Is(err, repositories.ErrCodeNotRedeemable) {
				return nil, nil, ErrInvalidSignupCode
			}
			return nil, nil, fmt.Errorf("redeem signup code: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit signup transaction: %w", err)
	}

	s.notify(ctx, user, addr)

	return user, addr, nil
}

func (s *signupService) notify(ctx context.Context, user *models.User, addr *models.EmailAddress) {
	s.mu.Lock()
	observers := make([]SignupObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(ctx, user, addr)
	}
}
