package ports

import (
	"time"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. It never fails on a
	// mismatch, it just returns false.
	Verify(plaintext, digest string) bool
}

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	Issue(claim domain.SessionClaim) (token string, expiresAt time.Time, err error)
	// Verify returns the embedded claim, or false for any invalid, expired or
	// malformed token.
	Verify(token string) (*domain.SessionClaim, bool)
}
