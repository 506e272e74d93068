package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
	"github.com/hirelane/jobboard/internal/pkg/validate"
)

// dummyPassword is hashed once and compared against when the e-mail is
// unknown, so both failure paths cost one bcrypt comparison.
const dummyPassword = "jobboard-dummy-password"

// AuthService implements signup, login and session lookup.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenCodec
	limiter ports.LoginLimiter
	audit   ports.AuditRecorder
	log     zerolog.Logger
	now     func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService wires the auth use cases. limiter and audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenCodec,
	limiter ports.LoginLimiter,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = nopRecorder{}
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

// Signup registers a new account and opens a session for it.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         domain.Role(in.Role),
		PasswordHash: hash,
		Profile:      domain.NewProfile(in.FullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: create user: %w", err)
	}

	session, err := s.openSession(created)
	if err != nil {
		// The account exists at this point; the user can still log in.
		s.log.Error().Err(err).Str("user_id", created.ID).Msg("signup: user created but session not issued")
		return nil, err
	}

	s.record(domain.AuthEvent{Kind: domain.AuthEventSignup, Email: created.Email, UserID: created.ID, ClientIP: in.ClientIP})
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user signed up")
	return session, nil
}

// Login verifies credentials and role and opens a session. Unknown e-mail and
// wrong password yield the same ErrInvalidCredentials. The role is compared
// only after the password matched.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, in.Email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter check failed, proceeding")
		} else if blocked {
			s.fail(ctx, in, "", "throttled", false)
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: find user: %w", err)
		}
		s.hasher.Verify(in.Password, s.dummy())
		s.fail(ctx, in, "", "unknown_email", true)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.fail(ctx, in, user.ID, "bad_password", true)
		return nil, domain.ErrInvalidCredentials
	}

	if user.Role != domain.Role(in.Role) {
		s.fail(ctx, in, user.ID, "role_mismatch", true)
		return nil, domain.ErrRoleMismatch
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, in.Email); err != nil {
			s.log.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	session, err := s.openSession(user)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{Kind: domain.AuthEventLoginSuccess, Email: user.Email, UserID: user.ID, ClientIP: in.ClientIP})
	return session, nil
}

// CurrentUser resolves the session token to the up-to-date account.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claim, ok := s.tokens.Verify(token)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := s.users.FindByID(ctx, claim.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user.Sanitized(), nil
}

// Logout records the end of a session. The token itself stays valid until
// it expires.
func (s *AuthService) Logout(_ context.Context, token, clientIP string) {
	ev := domain.AuthEvent{Kind: domain.AuthEventLogout, ClientIP: clientIP}
	if claim, ok := s.tokens.Verify(token); ok {
		ev.UserID = claim.UserID
		ev.Email = claim.Email
	}
	s.record(ev)
}

func (s *AuthService) openSession(user *domain.User) (*ports.Session, error) {
	sanitized := user.Sanitized()
	token, expiresAt, err := s.tokens.Issue(domain.ClaimFor(sanitized))
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &ports.Session{User: sanitized, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) fail(ctx context.Context, in ports.LoginInput, userID, reason string, count bool) {
	if count && s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, in.Email); err != nil {
			s.log.Warn().Err(err).Msg("login limiter update failed")
		}
	}
	s.record(domain.AuthEvent{
		Kind:     domain.AuthEventLoginFailure,
		Email:    in.Email,
		UserID:   userID,
		Reason:   reason,
		ClientIP: in.ClientIP,
	})
}

func (s *AuthService) record(ev domain.AuthEvent) {
	ev.Timestamp = s.now().UTC()
	s.audit.Record(ev)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to prepare dummy password hash")
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.AuthEvent) {}
