package repositories

import (
	"context"

	"accountd/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EmailConfirmationRepository interface {
	Create(ctx context.Context, confirmation *models.EmailConfirmation) error
	GetByToken(ctx context.Context, token string) (*models.EmailConfirmation, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) EmailConfirmationRepository
}

type emailConfirmationRepo struct {
	db Querier
}

func NewEmailConfirmationRepo(db Querier) EmailConfirmationRepository {
	return &emailConfirmationRepo{db: db}
}

func (r *emailConfirmationRepo) WithTx(tx pgx.Tx) EmailConfirmationRepository {
	return &emailConfirmationRepo{db: tx}
}

func (r *emailConfirmationRepo) Create(ctx context.Context, confirmation *models.EmailConfirmation) error {
	query := `
		INSERT INTO email_confirmations (id, email_address_id, token, expires_at, confirmed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, confirmation.ID, confirmation.EmailAddressID, confirmation.Token, confirmation.ExpiresAt, confirmation.ConfirmedAt, confirmation.CreatedAt)
	return err
}

func (r *emailConfirmationRepo) GetByToken(ctx context.Context, token string) (*models.EmailConfirmation, error) {
	rec := &models.EmailConfirmation{}
	query := `
		SELECT id, email_address_id, token, expires_at, confirmed_at, created_at
		FROM email_confirmations
		WHERE token = $1
	`
	err := r.db.QueryRow(ctx, query, token).Scan(&rec.ID, &rec.EmailAddressID, &rec.Token, &rec.ExpiresAt, &rec.ConfirmedAt, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *emailConfirmationRepo) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE email_confirmations SET confirmed_at = NOW() WHERE id = $1 AND confirmed_at IS NULL`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *emailConfirmationRepo) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM email_confirmations WHERE confirmed_at IS NULL AND expires_at < NOW()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
