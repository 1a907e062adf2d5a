package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt hashing and verification. bcrypt salts every
// digest, so Hash is not reproducible across calls; only Verify round-trips.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using bcrypt's default cost.
func NewPasswordHasher() PasswordHasher {
	return PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash produces a salted one-way digest of plaintext.
func (h PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. A mismatch is
// not an error; it simply returns false.
func (h PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
