package repositories

import (
	"context"

	"accountd/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	WithTx(tx pgx.Tx) AccountRepository
}

type accountRepo struct {
	db Querier
}

func NewAccountRepo(db Querier) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) WithTx(tx pgx.Tx) AccountRepository {
	return &accountRepo{db: tx}
}

func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, timezone, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, account.ID, account.UserID, account.Timezone, account.Language, account.CreatedAt, account.UpdatedAt)
	return err
}

func (r *accountRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, user_id, timezone, language, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&account.ID, &account.UserID, &account.Timezone, &account.Language, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepo) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET timezone = $1, language = $2, updated_at = NOW()
		WHERE user_id = $3
	`
	_, err := r.db.Exec(ctx, query, account.Timezone, account.Language, account.UserID)
	return err
}
