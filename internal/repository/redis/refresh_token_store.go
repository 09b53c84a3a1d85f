package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Animetrack/internal/domain/auth"
	goredis "github.com/redis/go-redis/v9"
)

var _ auth.RefreshTokenStore = (*RefreshTokenStore)(nil)

var ErrDuplicateToken = errors.New("refresh token already stored")

// RefreshTokenStore keeps one key per refresh token. The key TTL is the
// token lifetime, so expired tokens disappear without a sweeper.
type RefreshTokenStore struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

func NewRefreshTokenStore(client goredis.Cmdable) *RefreshTokenStore {
	return &RefreshTokenStore{
		client: client,
		prefix: "refresh:",
		ttl:    auth.RefreshTokenTTL,
		now:    time.Now,
	}
}

type record struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *RefreshTokenStore) key(token string) string {
	return s.prefix + token
}

func (s *RefreshTokenStore) Save(ctx context.Context, userID int64, token string) error {
	data, err := json.Marshal(record{UserID: userID, CreatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("refresh: marshal: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(token), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("refresh: save: %w", err)
	}
	if !ok {
		return ErrDuplicateToken
	}
	return nil
}

func (s *RefreshTokenStore) FindByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	val, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: get: %w", err)
	}
	return decode(token, val)
}

func (s *RefreshTokenStore) DeleteByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	val, err := s.client.GetDel(ctx, s.key(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: getdel: %w", err)
	}
	return decode(token, val)
}

func decode(token string, val []byte) (*auth.RefreshToken, error) {
	var r record
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, fmt.Errorf("refresh: unmarshal: %w", err)
	}
	return &auth.RefreshToken{UserID: r.UserID, Token: token, CreatedAt: r.CreatedAt}, nil
}
