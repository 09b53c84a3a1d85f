package auth

import (
	"time"
)

// RefreshToken is a stored proof of a successful login.
type RefreshToken struct {
	UserID    int64     `json:"userId"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// RefreshTokenTTL is how long the store keeps a refresh token after creation.
const RefreshTokenTTL = 604800 * time.Second
