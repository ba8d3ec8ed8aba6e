package handlers

import (
	"context"
	"time"

	"accountd/internal/caching"
	"accountd/internal/models"
	"accountd/internal/repositories"
	"accountd/internal/services"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// Service mocks shared by the handler test suites.

type MockSignupService struct {
	mock.Mock
}

func (m *MockSignupService) Signup(ctx context.Context, username, email, password string, code *models.SignupCode) (*models.User, *models.EmailAddress, error) {
	args := m.Called(ctx, username, email, password, code)
	var user *models.User
	var addr *models.EmailAddress
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	if args.Get(1) != nil {
		addr = args.Get(1).(*models.EmailAddress)
	}
	return user, addr, args.Error(2)
}

func (m *MockSignupService) Subscribe(observer services.SignupObserver) {
	m.Called(observer)
}

type MockSignupCodeService struct {
	mock.Mock
}

func (m *MockSignupCodeService) Create(ctx context.Context, params services.SignupCodeParams) (*models.SignupCode, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SignupCode), args.Error(1)
}

func (m *MockSignupCodeService) CheckCode(ctx context.Context, code string) (*models.SignupCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SignupCode), args.Error(1)
}

func (m *MockSignupCodeService) Send(ctx context.Context, code *models.SignupCode, signupURL string) error {
	args := m.Called(ctx, code, signupURL)
	return args.Error(0)
}

type MockConfirmationService struct {
	mock.Mock
}

func (m *MockConfirmationService) Start(ctx context.Context, addr *models.EmailAddress) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

func (m *MockConfirmationService) Confirm(ctx context.Context, token string) (*models.EmailAddress, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailAddress), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) SettingsFor(ctx context.Context, userID uuid.UUID) (*services.SettingsView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SettingsView), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, userID uuid.UUID, update services.SettingsUpdate) (*services.SettingsView, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SettingsView), args.Error(1)
}

type MockDeletionService struct {
	mock.Mock
}

func (m *MockDeletionService) Mark(ctx context.Context, userID uuid.UUID) (*models.AccountDeletion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountDeletion), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(ctx context.Context, userID uuid.UUID) (*models.TokenResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockTokenService) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// stubUserRepo and stubEmailRepo back a real SignupValidator in signup
// handler tests without a database.

type stubUserRepo struct {
	usernameTaken bool
	emailTaken    bool
	user          *models.User
}

func (s *stubUserRepo) Create(context.Context, *models.User) error { return nil }
func (s *stubUserRepo) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}
func (s *stubUserRepo) GetByUsername(context.Context, string) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubUserRepo) ExistsByUsername(context.Context, string) (bool, error) {
	return s.usernameTaken, nil
}
func (s *stubUserRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return s.emailTaken, nil
}
func (s *stubUserRepo) WithTx(pgx.Tx) repositories.UserRepository { return s }

type stubEmailRepo struct {
	emailTaken bool
}

func (s *stubEmailRepo) Create(context.Context, *models.EmailAddress) error { return nil }
func (s *stubEmailRepo) GetByID(context.Context, uuid.UUID) (*models.EmailAddress, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubEmailRepo) GetByEmail(context.Context, string) (*models.EmailAddress, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubEmailRepo) GetPrimary(context.Context, uuid.UUID) (*models.EmailAddress, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubEmailRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return s.emailTaken, nil
}
func (s *stubEmailRepo) MarkVerified(context.Context, uuid.UUID) error { return nil }
func (s *stubEmailRepo) SetPrimary(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (s *stubEmailRepo) WithTx(pgx.Tx) repositories.EmailAddressRepository { return s }

// stubCache forces the rate limiter's answer.
type stubCache struct {
	limited bool
}

func (s *stubCache) SetString(context.Context, string, string, time.Duration) error { return nil }
func (s *stubCache) GetString(context.Context, string) (string, error)              { return "", nil }
func (s *stubCache) Delete(context.Context, string) error                           { return nil }
func (s *stubCache) IsRateLimited(context.Context, string, int, time.Duration) (bool, error) {
	return s.limited, nil
}

var _ caching.CacheService = (*stubCache)(nil)
