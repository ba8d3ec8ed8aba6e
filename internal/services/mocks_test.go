package services

import (
	"context"

	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// Repository mocks shared by the service test suites. WithTx returns the
// mock itself so transactional calls register on the same expectations.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) WithTx(tx pgx.Tx) repositories.UserRepository {
	return m
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) repositories.AccountRepository {
	return m
}

type MockEmailAddressRepository struct {
	mock.Mock
}

func (m *MockEmailAddressRepository) Create(ctx context.Context, addr *models.EmailAddress) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

func (m *MockEmailAddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailAddress, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailAddress), args.Error(1)
}

func (m *MockEmailAddressRepository) GetByEmail(ctx context.Context, email string) (*models.EmailAddress, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailAddress), args.Error(1)
}

func (m *MockEmailAddressRepository) GetPrimary(ctx context.Context, userID uuid.UUID) (*models.EmailAddress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailAddress), args.Error(1)
}

func (m *MockEmailAddressRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmailAddressRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailAddressRepository) SetPrimary(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockEmailAddressRepository) WithTx(tx pgx.Tx) repositories.EmailAddressRepository {
	return m
}

type MockSignupCodeRepository struct {
	mock.Mock
}

func (m *MockSignupCodeRepository) Create(ctx context.Context, code *models.SignupCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockSignupCodeRepository) GetByCode(ctx context.Context, code string) (*models.SignupCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SignupCode), args.Error(1)
}

func (m *MockSignupCodeRepository) HasActiveForEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockSignupCodeRepository) Redeem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSignupCodeRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSignupCodeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSignupCodeRepository) WithTx(tx pgx.Tx) repositories.SignupCodeRepository {
	return m
}

type MockAccountDeletionRepository struct {
	mock.Mock
}

func (m *MockAccountDeletionRepository) Create(ctx context.Context, deletion *models.AccountDeletion) error {
	args := m.Called(ctx, deletion)
	return args.Error(0)
}

func (m *MockAccountDeletionRepository) WithTx(tx pgx.Tx) repositories.AccountDeletionRepository {
	return m
}

type MockEmailConfirmationRepository struct {
	mock.Mock
}

func (m *MockEmailConfirmationRepository) Create(ctx context.Context, confirmation *models.EmailConfirmation) error {
	args := m.Called(ctx, confirmation)
	return args.Error(0)
}

func (m *MockEmailConfirmationRepository) GetByToken(ctx context.Context, token string) (*models.EmailConfirmation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailConfirmation), args.Error(1)
}

func (m *MockEmailConfirmationRepository) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailConfirmationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmailConfirmationRepository) WithTx(tx pgx.Tx) repositories.EmailConfirmationRepository {
	return m
}
