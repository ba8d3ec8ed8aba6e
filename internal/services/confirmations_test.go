package services

import (
	"context"
	"testing"
	"time"

	"accountd/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ConfirmationServiceTestSuite struct {
	suite.Suite
	mockDB       pgxmock.PgxPoolIface
	mockConfirms *MockEmailConfirmationRepository
	mockEmails   *MockEmailAddressRepository
	sender       *MemorySender
	service      ConfirmationService
	ctx          context.Context
}

func (suite *ConfirmationServiceTestSuite) SetupTest() {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mockDB = mockDB

	suite.mockConfirms = &MockEmailConfirmationRepository{}
	suite.mockEmails = &MockEmailAddressRepository{}
	suite.sender = NewMemorySender()
	mailer := NewEmailService(suite.sender, "https://example.com")
	suite.service = NewConfirmationService(mockDB, suite.mockConfirms, suite.mockEmails, mailer, 72*time.Hour)
	suite.ctx = context.Background()

	suite.mockConfirms.Test(suite.T())
	suite.mockEmails.Test(suite.T())
}

func (suite *ConfirmationServiceTestSuite) TearDownTest() {
	suite.mockDB.Close()
	suite.mockConfirms.AssertExpectations(suite.T())
	suite.mockEmails.AssertExpectations(suite.T())
}

func TestConfirmationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConfirmationServiceTestSuite))
}

func (suite *ConfirmationServiceTestSuite) TestStart_StoresTokenAndSendsMail() {
	addr := &models.EmailAddress{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Email:  "alice@example.com",
	}

	var issued string
	suite.mockConfirms.On("Create", suite.ctx, mock.AnythingOfType("*models.EmailConfirmation")).Return(nil).Run(func(args mock.Arguments) {
		confirmation := args.Get(1).(*models.EmailConfirmation)
		assert.Equal(suite.T(), addr.ID, confirmation.EmailAddressID)
		assert.Len(suite.T(), confirmation.Token, 40)
		assert.WithinDuration(suite.T(), time.Now().Add(72*time.Hour), confirmation.ExpiresAt, time.Minute)
		issued = confirmation.Token
	})

	err := suite.service.Start(suite.ctx, addr)
	assert.NoError(suite.T(), err)

	messages := suite.sender.Messages()
	assert.Len(suite.T(), messages, 1)
	assert.Equal(suite.T(), "alice@example.com", messages[0].To)
	assert.Contains(suite.T(), messages[0].Text, "https://example.com/confirm?token="+issued)
}

func (suite *ConfirmationServiceTestSuite) TestConfirm_Success() {
	addr := &models.EmailAddress{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Email:  "alice@example.com",
	}
	rec := &models.EmailConfirmation{
		ID:             uuid.New(),
		EmailAddressID: addr.ID,
		Token:          "confirmtoken",
		ExpiresAt:      time.Now().Add(time.Hour),
	}

	suite.mockDB.ExpectBegin()
	suite.mockDB.ExpectCommit()

	suite.mockConfirms.On("GetByToken", suite.ctx, "confirmtoken").Return(rec, nil)
	suite.mockEmails.On("GetByID", suite.ctx, addr.ID).Return(addr, nil)
	suite.mockConfirms.On("MarkConfirmed", suite.ctx, rec.ID).Return(nil)
	suite.mockEmails.On("MarkVerified", suite.ctx, addr.ID).Return(nil)
	suite.mockEmails.On("SetPrimary", suite.ctx, addr.UserID, addr.ID).Return(nil)

	result, err := suite.service.Confirm(suite.ctx, "confirmtoken")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.Verified)
	assert.True(suite.T(), result.Primary)
}

func (suite *ConfirmationServiceTestSuite) TestConfirm_UnknownToken() {
	suite.mockConfirms.On("GetByToken", suite.ctx, "nosuchtoken").Return(nil, pgx.ErrNoRows)

	result, err := suite.service.Confirm(suite.ctx, "nosuchtoken")
	assert.ErrorIs(suite.T(), err, ErrInvalidConfirmationToken)
	assert.Nil(suite.T(), result)
}

func (suite *ConfirmationServiceTestSuite) TestConfirm_ExpiredToken() {
	rec := &models.EmailConfirmation{
		ID:             uuid.New(),
		EmailAddressID: uuid.New(),
		Token:          "oldtoken",
		ExpiresAt:      time.Now().Add(-time.Hour),
	}
	suite.mockConfirms.On("GetByToken", suite.ctx, "oldtoken").Return(rec, nil)

	result, err := suite.service.Confirm(suite.ctx, "oldtoken")
	assert.ErrorIs(suite.T(), err, ErrInvalidConfirmationToken)
	assert.Nil(suite.T(), result)
}

func (suite *ConfirmationServiceTestSuite) TestConfirm_AlreadyConsumed() {
	confirmedAt := time.Now().Add(-time.Minute)
	rec := &models.EmailConfirmation{
		ID:             uuid.New(),
		EmailAddressID: uuid.New(),
		Token:          "usedtoken",
		ExpiresAt:      time.Now().Add(time.Hour),
		ConfirmedAt:    &confirmedAt,
	}
	suite.mockConfirms.On("GetByToken", suite.ctx, "usedtoken").Return(rec, nil)

	result, err := suite.service.Confirm(suite.ctx, "usedtoken")
	assert.ErrorIs(suite.T(), err, ErrInvalidConfirmationToken)
	assert.Nil(suite.T(), result)
}
