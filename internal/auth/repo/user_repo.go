package repo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/auth/entity"
)

// UserRepo provides read access to the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  username TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  full_name TEXT,
  disabled BOOLEAN,
  hashed_password TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// GetByUsername fetches a credential record by exact username match.
// Returns sql.ErrNoRows when no account exists.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.Credential, error) {
	const q = `SELECT username, email, full_name, disabled, hashed_password
	  FROM users WHERE username=$1`
	var row entity.Credential
	if err := r.db.GetContext(ctx, &row, q, username); err != nil {
		return nil, err
	}
	return &row, nil
}
