package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltBytes      = 16
	HashIterations = 1000
	HashKeyLen     = 64
)

// HashPassword derives a PBKDF2-SHA512 hash for password. An empty salt means
// a fresh random one is generated; both are returned hex encoded.
func HashPassword(password, salt string) (string, string, error) {
	if salt == "" {
		b := make([]byte, SaltBytes)
		if _, err := rand.Read(b); err != nil {
			return "", "", fmt.Errorf("generate salt: %w", err)
		}
		salt = hex.EncodeToString(b)
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), HashIterations, HashKeyLen, sha512.New)
	return salt, hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the hash with the stored salt and compares it in
// constant time.
func VerifyPassword(password, salt, hash string) bool {
	_, derived, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}
