package auth

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/NordCoder/Animetrack/internal/domain/auth"
	"github.com/NordCoder/Animetrack/internal/domain/outbox"
	"github.com/NordCoder/Animetrack/internal/domain/user"
	"github.com/NordCoder/Animetrack/internal/repository/postgres"
	"github.com/golang-jwt/jwt/v5"
)

func signRaw(secret []byte, claims map[string]any) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims)).SignedString(secret)
}

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*user.User
	err    error
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]*user.User{}} }

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.byName {
		if x.Username == u.Username || x.Email == u.Email {
			return postgres.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byName[u.Username] = &cp
	return nil
}

func (m *memUsers) GetByUsername(_ context.Context, name string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byName[name]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// memTokens mimics a TTL store: records older than ttl are invisible.
type memTokens struct {
	mu   sync.Mutex
	recs map[string]domainauth.RefreshToken
	now  func() time.Time
	ttl  time.Duration
}

func newMemTokens() *memTokens {
	return &memTokens{recs: map[string]domainauth.RefreshToken{}, now: time.Now, ttl: domainauth.RefreshTokenTTL}
}

func (m *memTokens) Save(_ context.Context, userID int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[token]; ok {
		return postgres.ErrConflict
	}
	m.recs[token] = domainauth.RefreshToken{UserID: userID, Token: token, CreatedAt: m.now()}
	return nil
}

func (m *memTokens) live(token string) (*domainauth.RefreshToken, bool) {
	r, ok := m.recs[token]
	if !ok || m.now().Sub(r.CreatedAt) >= m.ttl {
		return nil, false
	}
	return &r, true
}

func (m *memTokens) FindByToken(_ context.Context, token string) (*domainauth.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, _ := m.live(token)
	return r, nil
}

func (m *memTokens) DeleteByToken(_ context.Context, token string) (*domainauth.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.live(token)
	delete(m.recs, token)
	if !ok {
		return nil, nil
	}
	return r, nil
}

func (m *memTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

type countingTx struct{ calls int }

func (t *countingTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type emitted struct {
	kind     outbox.Kind
	userID   int64
	username string
}

type recEmitter struct {
	mu   sync.Mutex
	got  []emitted
	fail error
}

func (e *recEmitter) Emit(_ context.Context, kind outbox.Kind, userID int64, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail != nil {
		return e.fail
	}
	e.got = append(e.got, emitted{kind: kind, userID: userID, username: username})
	return nil
}

func (e *recEmitter) kinds() []outbox.Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]outbox.Kind, 0, len(e.got))
	for _, g := range e.got {
		out = append(out, g.kind)
	}
	return out
}
