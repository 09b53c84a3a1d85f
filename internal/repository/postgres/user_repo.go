package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Animetrack/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, username, email, password_hash, salt, created_at, updated_at`

const (
	qUserInsert = `
INSERT INTO users (username, email, password_hash, salt)
VALUES ($1, $2, $3, $4)
RETURNING ` + userCols + `;`

	qUserByUsername = `
SELECT ` + userCols + `
FROM users
WHERE username = $1;`
)

// Create inserts u and fills its generated fields. A taken username or email
// yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	row := r.db.execQueryer(ctx).QueryRow(ctx, qUserInsert, u.Username, u.Email, u.PasswordHash, u.Salt)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrConflict
		}
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.execQueryer(ctx).QueryRow(ctx, qUserByUsername, username), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUser(row pgx.Row, out *user.User) error {
	err := row.Scan(&out.ID, &out.Username, &out.Email, &out.PasswordHash, &out.Salt, &out.CreatedAt, &out.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	default:
		return mapPgErr(err)
	}
}
