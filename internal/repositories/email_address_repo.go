package repositories

import (
	"context"

	"accountd/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EmailAddressRepository interface {
	Create(ctx context.Context, addr *models.EmailAddress) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EmailAddress, error)
	GetByEmail(ctx context.Context, email string) (*models.EmailAddress, error)
	GetPrimary(ctx context.Context, userID uuid.UUID) (*models.EmailAddress, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SetPrimary(ctx context.Context, userID, id uuid.UUID) error
	WithTx(tx pgx.Tx) EmailAddressRepository
}

type emailAddressRepo struct {
	db Querier
}

func NewEmailAddressRepo(db Querier) EmailAddressRepository {
	return &emailAddressRepo{db: db}
}

func (r *emailAddressRepo) WithTx(tx pgx.Tx) EmailAddressRepository {
	return &emailAddressRepo{db: tx}
}

func (r *emailAddressRepo) Create(ctx context.Context, addr *models.EmailAddress) error {
	query := `
		INSERT INTO email_addresses (id, user_id, email, verified, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, addr.ID, addr.UserID, addr.Email, addr.Verified, addr.Primary, addr.CreatedAt)
	return err
}

func (r *emailAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailAddress, error) {
	addr := &models.EmailAddress{}
	query := `
		SELECT id, user_id, email, verified, is_primary, created_at
		FROM email_addresses
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&addr.ID, &addr.UserID, &addr.Email, &addr.Verified, &addr.Primary, &addr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *emailAddressRepo) GetByEmail(ctx context.Context, email string) (*models.EmailAddress, error) {
	addr := &models.EmailAddress{}
	query := `
		SELECT id, user_id, email, verified, is_primary, created_at
		FROM email_addresses
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&addr.ID, &addr.UserID, &addr.Email, &addr.Verified, &addr.Primary, &addr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *emailAddressRepo) GetPrimary(ctx context.Context, userID uuid.UUID) (*models.EmailAddress, error) {
	addr := &models.EmailAddress{}
	query := `
		SELECT id, user_id, email, verified, is_primary, created_at
		FROM email_addresses
		WHERE user_id = $1 AND is_primary = TRUE
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&addr.ID, &addr.UserID, &addr.Email, &addr.Verified, &addr.Primary, &addr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *emailAddressRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM email_addresses WHERE email = $1`
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *emailAddressRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE email_addresses SET verified = TRUE WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// SetPrimary promotes the given address and demotes every other address
// of the same user. Run inside a transaction so the one-primary-per-user
// invariant holds at every commit point.
func (r *emailAddressRepo) SetPrimary(ctx context.Context, userID, id uuid.UUID) error {
	demote := `UPDATE email_addresses SET is_primary = FALSE WHERE user_id = $1 AND id <> $2`
	if _, err := r.db.Exec(ctx, demote, userID, id); err != nil {
		return err
	}
	promote := `UPDATE email_addresses SET is_primary = TRUE WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, promote, userID, id)
	return err
}
