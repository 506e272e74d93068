package ports

import (
	"context"
	"time"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// SignupInput carries the fields of a registration request.
type SignupInput struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Role     string `json:"role"     validate:"required,oneof=JOBSEEKER EMPLOYER"`
	ClientIP string `json:"-"`
}

// LoginInput carries the fields of a login request.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=JOBSEEKER EMPLOYER"`
	ClientIP string `json:"-"`
}

// Session is the outcome of a successful signup or login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService defines the authentication use cases.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*Session, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token, clientIP string)
}
