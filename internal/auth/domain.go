package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("signing secret is not configured")
	ErrEmptySubject  = errors.New("empty user id")
)

// Token classes carried in the typ claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the payload shared by access and refresh tokens.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	Type   string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

type Status int

const (
	StatusInvalid Status = iota
	StatusValid
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Verification is the outcome of checking a token's signature and expiry.
// UserID is set only when Status is StatusValid and may still be empty if the
// payload did not carry one.
type Verification struct {
	Status Status
	UserID string
	Type   string
}

func (v Verification) Valid() bool { return v.Status == StatusValid }
