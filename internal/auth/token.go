package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// Issuer mints and verifies HS256 tokens. Access and refresh tokens use
// separate secrets.
type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) *Issuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Issuer{cfg: cfg}
}

func (i *Issuer) AccessConfigured() bool  { return len(i.cfg.AccessSecret) > 0 }
func (i *Issuer) RefreshConfigured() bool { return len(i.cfg.RefreshSecret) > 0 }

func (i *Issuer) IssueAccess(userID string) (string, error) {
	return i.sign(userID, TypeAccess, i.cfg.AccessSecret, i.cfg.AccessTTL, "")
}

// IssueRefresh adds a random jti so that two tokens minted for the same user
// within one second still differ.
func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return i.sign(userID, TypeRefresh, i.cfg.RefreshSecret, i.cfg.RefreshTTL, uuid.NewString())
}

func (i *Issuer) VerifyAccess(token string) (Verification, error) {
	if !i.AccessConfigured() {
		return Verification{}, ErrMissingSecret
	}
	return ofType(Verify(token, i.cfg.AccessSecret, i.cfg.Now), TypeAccess), nil
}

func (i *Issuer) VerifyRefresh(token string) (Verification, error) {
	if !i.RefreshConfigured() {
		return Verification{}, ErrMissingSecret
	}
	return ofType(Verify(token, i.cfg.RefreshSecret, i.cfg.Now), TypeRefresh), nil
}

// ofType rejects a token minted for the other class even when both classes
// share a secret. Tokens without a typ claim predate it and are judged by
// signature and expiry alone.
func ofType(v Verification, want string) Verification {
	if v.Valid() && v.Type != "" && v.Type != want {
		return Verification{Status: StatusInvalid}
	}
	return v
}

func (i *Issuer) sign(userID, typ string, secret []byte, ttl time.Duration, jti string) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}
	if userID == "" {
		return "", ErrEmptySubject
	}
	now := i.cfg.Now()
	claims := Claims{
		UserID: userID,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify checks signature and expiry of token against secret. It never
// returns an error: every failure is folded into the Status.
func Verify(token string, secret []byte, now func() time.Time) Verification {
	if token == "" || len(secret) == 0 {
		return Verification{Status: StatusInvalid}
	}
	if now == nil {
		now = time.Now
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Verification{Status: StatusExpired}
	case err != nil || !tok.Valid:
		return Verification{Status: StatusInvalid}
	}
	return Verification{Status: StatusValid, UserID: claims.UserID, Type: claims.Type}
}
