package ports

import (
	"context"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns domain.ErrEmailTaken when the e-mail is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
