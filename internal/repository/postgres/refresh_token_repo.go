package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Animetrack/internal/domain/auth"
	"github.com/jackc/pgx/v5"
)

var _ auth.RefreshTokenStore = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo keeps refresh tokens in Postgres. Expired rows are
// filtered by every read and removed by Purge.
type RefreshTokenRepo struct {
	db  *DB
	ttl string
}

func NewRefreshTokenRepo(db *DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db, ttl: fmt.Sprintf("%d seconds", int64(auth.RefreshTokenTTL.Seconds()))}
}

const (
	qRTInsert = `
INSERT INTO refresh_tokens (user_id, token, created_at, expires_at)
VALUES ($1, $2, NOW(), NOW() + $3::interval);`

	qRTFind = `
SELECT user_id, token, created_at
FROM refresh_tokens
WHERE token = $1 AND expires_at > NOW();`

	qRTDelete = `
DELETE FROM refresh_tokens
WHERE token = $1 AND expires_at > NOW()
RETURNING user_id, token, created_at;`

	qRTPurge = `
DELETE FROM refresh_tokens
WHERE expires_at <= NOW();`
)

func (r *RefreshTokenRepo) Save(ctx context.Context, userID int64, token string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qRTInsert, userID, token, r.ttl); err != nil {
		return fmt.Errorf("refresh token insert: %w", mapPgErr(err))
	}
	return nil
}

func (r *RefreshTokenRepo) FindByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanRefresh(r.db.execQueryer(ctx).QueryRow(ctx, qRTFind, token))
}

func (r *RefreshTokenRepo) DeleteByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanRefresh(r.db.execQueryer(ctx).QueryRow(ctx, qRTDelete, token))
}

// Purge drops rows past their expiry and reports how many were removed.
func (r *RefreshTokenRepo) Purge(ctx context.Context) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.execQueryer(ctx).Exec(ctx, qRTPurge)
	if err != nil {
		return 0, fmt.Errorf("refresh token purge: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRefresh(row pgx.Row) (*auth.RefreshToken, error) {
	var t auth.RefreshToken
	if err := row.Scan(&t.UserID, &t.Token, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}
	return &t, nil
}
