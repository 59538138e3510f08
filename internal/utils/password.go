package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt would truncate.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword hashes plain with bcrypt.  A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost so an unset BCRYPT_COST still hashes.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hash.  A malformed hash
// never matches.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
