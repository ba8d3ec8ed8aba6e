package repositories

import (
	"context"

	"accountd/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SignupCodeRepository interface {
	Create(ctx context.Context, code *models.SignupCode) error
	GetByCode(ctx context.Context, code string) (*models.SignupCode, error)
	HasActiveForEmail(ctx context.Context, email string) (bool, error)
	Redeem(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) SignupCodeRepository
}

type signupCodeRepo struct {
	db Querier
}

func NewSignupCodeRepo(db Querier) SignupCodeRepository {
	return &signupCodeRepo{db: db}
}

func (r *signupCodeRepo) WithTx(tx pgx.Tx) SignupCodeRepository {
	return &signupCodeRepo{db: tx}
}

func (r *signupCodeRepo) Create(ctx context.Context, code *models.SignupCode) error {
	query := `
		INSERT INTO signup_codes (id, code, email, inviter_id, expires_at, max_uses, use_count, notes, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query, code.ID, code.Code, code.Email, code.InviterID, code.ExpiresAt, code.MaxUses, code.UseCount, code.Notes, code.SentAt, code.CreatedAt)
	return err
}

func (r *signupCodeRepo) GetByCode(ctx context.Context, code string) (*models.SignupCode, error) {
	rec := &models.SignupCode{}
	query := `
		SELECT id, code, email, inviter_id, expires_at, max_uses, use_count, notes, sent_at, created_at
		FROM signup_codes
		WHERE code = $1
	`
	err := r.db.QueryRow(ctx, query, code).Scan(&rec.ID, &rec.Code, &rec.Email, &rec.InviterID, &rec.ExpiresAt, &rec.MaxUses, &rec.UseCount, &rec.Notes, &rec.SentAt, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *signupCodeRepo) HasActiveForEmail(ctx context.Context, email string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM signup_codes
		WHERE email = $1 AND use_count = 0
		AND (expires_at IS NULL OR expires_at > NOW())
	`
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Redeem increments the use counter if and only if the code is still
// redeemable. The conditional update is serialized by row-level locking,
// so concurrent redemptions of a single-use code see at most one success.
// Returns ErrCodeNotRedeemable when no row matched.
func (r *signupCodeRepo) Redeem(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE signup_codes
		SET use_count = use_count + 1
		WHERE id = $1
		AND (expires_at IS NULL OR expires_at > NOW())
		AND (max_uses = 0 OR use_count < max_uses)
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCodeNotRedeemable
	}
	return nil
}

func (r *signupCodeRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE signup_codes SET sent_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *signupCodeRepo) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM signup_codes WHERE expires_at IS NOT NULL AND expires_at < NOW() AND use_count = 0`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
