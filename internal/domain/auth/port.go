package auth

import "context"

// RefreshTokenStore persists outstanding refresh tokens. Records older than
// the store TTL must become unfindable without any action from the caller.
//
// FindByToken and DeleteByToken return (nil, nil) when nothing matches.
type RefreshTokenStore interface {
	Save(ctx context.Context, userID int64, token string) error
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteByToken(ctx context.Context, token string) (*RefreshToken, error)
}
