package services

import (
	"context"
	"fmt"
	"time"

	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/google/uuid"
)

// DeletionService marks accounts for permanent removal. The rows it
// writes are consumed by a separate expunge process after the
// configured grace period.
type DeletionService interface {
	Mark(ctx context.Context, userID uuid.UUID) (*models.AccountDeletion, error)
}

type deletionService struct {
	deletions repositories.AccountDeletionRepository
	users     repositories.UserRepository
	now       func() time.Time
}

func NewDeletionService(deletions repositories.AccountDeletionRepository, users repositories.UserRepository) DeletionService {
	return &deletionService{
		deletions: deletions,
		users:     users,
		now:       time.Now,
	}
}

func (s *deletionService) Mark(ctx context.Context, userID uuid.UUID) (*models.AccountDeletion, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	deletion := &models.AccountDeletion{
		ID:       uuid.New(),
		UserID:   user.ID,
		Email:    user.Email,
		MarkedAt: s.now(),
	}
	if err := s.deletions.Create(ctx, deletion); err != nil {
		return nil, fmt.Errorf("mark account for deletion: %w", err)
	}
	return deletion, nil
}
