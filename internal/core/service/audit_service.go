package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting events through repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, ev domain.AuthEvent) error {
	if err := s.repo.InsertAuthEvent(ctx, &ev); err != nil {
		return fmt.Errorf("store auth event: %w", err)
	}

	if ev.Kind == domain.AuthEventLoginFailure {
		s.log.Info().
			Str("email", ev.Email).
			Str("reason", ev.Reason).
			Str("client_ip", ev.ClientIP).
			Msg("login failed")
	}
	return nil
}
