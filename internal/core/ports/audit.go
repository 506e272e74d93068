package ports

import (
	"context"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService processes a single dequeued audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// LoginLimiter throttles repeated failed logins for the same account.
type LoginLimiter interface {
	// Blocked reports whether further attempts for key are currently refused.
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
