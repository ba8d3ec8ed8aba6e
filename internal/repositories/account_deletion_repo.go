package repositories

import (
	"context"

	"accountd/internal/models"

	"github.com/jackc/pgx/v5"
)

type AccountDeletionRepository interface {
	Create(ctx context.Context, deletion *models.AccountDeletion) error
	WithTx(tx pgx.Tx) AccountDeletionRepository
}

type accountDeletionRepo struct {
	db Querier
}

func NewAccountDeletionRepo(db Querier) AccountDeletionRepository {
	return &accountDeletionRepo{db: db}
}

func (r *accountDeletionRepo) WithTx(tx pgx.Tx) AccountDeletionRepository {
	return &accountDeletionRepo{db: tx}
}

func (r *accountDeletionRepo) Create(ctx context.Context, deletion *models.AccountDeletion) error {
	query := `
		INSERT INTO account_deletions (id, user_id, email, marked_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, deletion.ID, deletion.UserID, deletion.Email, deletion.MarkedAt)
	return err
}
