package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the query surface shared by pgxpool.Pool, pgx.Tx and the
// pgxmock pool used in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Database adds transaction support on top of Querier.
type Database interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrCodeNotRedeemable is returned by SignupCodeRepository.Redeem when the
// conditional use-count increment matched no row: the code is unknown,
// expired, or already used up.
var ErrCodeNotRedeemable = errors.New("signup code not redeemable")

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
