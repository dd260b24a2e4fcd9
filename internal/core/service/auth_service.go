package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/pkg/metrics"
	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/session"
)

type authService struct {
	backend ports.Backend
	audit   ports.Auditor
	log     zerolog.Logger
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(backend ports.Backend, audit ports.Auditor, log zerolog.Logger) ports.AuthService {
	if audit == nil {
		audit = ports.NopAuditor{}
	}
	return &authService{backend: backend, audit: audit, log: log}
}

// Login exchanges credentials for a token and starts a session with it.
func (s *authService) Login(ctx context.Context, name, password string) error {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return &domain.ValidationError{Message: "Name and password are required."}
	}

	token, err := s.backend.Login(ctx, name, password)
	if err != nil {
		if errors.Is(err, domain.ErrRequestFailed) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		var ae *domain.APIError
		if errors.As(err, &ae) && errors.Is(err, domain.ErrRequestFailed) && ae.Message == "" {
			ae.Message = "Login failed."
		}
		s.log.Debug().Err(err).Str("name", name).Msg("login failed")
		return err
	}

	return s.start(ctx, token)
}

// Callback starts a session from a token handed over by single sign-on.
func (s *authService) Callback(ctx context.Context, token string) error {
	if token == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return domain.ErrMalformedSession
	}
	return s.start(ctx, token)
}

func (s *authService) start(ctx context.Context, token string) error {
	store := session.FromContext(ctx)
	if err := store.Login(ctx, token); err != nil {
		if errors.Is(err, domain.ErrMalformedSession) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		s.log.Warn().Err(err).Msg("could not start session")
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	user := store.User()
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLogin,
		ActorID:   user.ID,
		ActorName: user.Name,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// Logout ends the session. It is safe to call without one.
func (s *authService) Logout(ctx context.Context) {
	store := session.FromContext(ctx)
	user := store.User()
	store.Logout(ctx)

	if user == nil {
		return
	}
	metrics.SessionTeardownsTotal.WithLabelValues("logout").Inc()
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLogout,
		ActorID:   user.ID,
		ActorName: user.Name,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Int64("user_id", user.ID).Msg("logged out")
}
