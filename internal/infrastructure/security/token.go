package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// MinKeyBytes is the minimum HMAC key length (256 bits).
const MinKeyBytes = 32

var ErrWeakKey = errors.New("signing key must be at least 32 bytes")

// sessionClaims is the JWT body: registered claims plus the session claim.
type sessionClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"name,omitempty"`
}

// JWTCodec implements ports.TokenCodec with HS256-signed JWTs.
type JWTCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// Option configures a JWTCodec.
type Option func(*JWTCodec)

// WithClock overrides the wall clock used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec creates a codec signing with key. A non-positive ttl falls back
// to domain.SessionTTL.
func NewJWTCodec(key []byte, ttl time.Duration, opts ...Option) (*JWTCodec, error) {
	if len(key) < MinKeyBytes {
		return nil, ErrWeakKey
	}
	if ttl <= 0 {
		ttl = domain.SessionTTL
	}
	c := &JWTCodec{
		key: append([]byte(nil), key...),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for claim, valid from now until now+ttl.
func (c *JWTCodec) Issue(claim domain.SessionClaim) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claim.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:     string(claim.Role),
		Email:    claim.Email,
		FullName: claim.FullName,
	})

	signed, err := t.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of token. Expiry is exclusive: a
// token is rejected from the exp instant onwards.
func (c *JWTCodec) Verify(token string) (*domain.SessionClaim, bool) {
	if token == "" {
		return nil, false
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return nil, false
	}

	return &domain.SessionClaim{
		UserID:   claims.Subject,
		Role:     role,
		Email:    claims.Email,
		FullName: claims.FullName,
	}, true
}
