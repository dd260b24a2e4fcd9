package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/session"
)

type dashboardService struct {
	backend ports.Backend
	audit   ports.Auditor
	log     zerolog.Logger
}

// NewDashboardService returns a DashboardService implementation.
func NewDashboardService(backend ports.Backend, audit ports.Auditor, log zerolog.Logger) ports.DashboardService {
	if audit == nil {
		audit = ports.NopAuditor{}
	}
	return &dashboardService{backend: backend, audit: audit, log: log}
}

// Load fetches every job and aggregates it by status. Nothing is fetched
// until the session has resolved to an authenticated user.
func (s *dashboardService) Load(ctx context.Context) ports.DashboardView {
	snap := session.FromContext(ctx).Snapshot()
	outcome := gate.Evaluate(snap, domain.AllRoles...)
	if !outcome.Renders() {
		return ports.DashboardView{Outcome: outcome}
	}

	jobs, err := s.backend.ListJobs(ctx)
	if err != nil {
		recordForcedLogout(s.audit, snap.User, err)
		if outcome := rejected(err); outcome != nil {
			return ports.DashboardView{Outcome: *outcome}
		}
		s.log.Warn().Err(err).Msg("failed to load jobs")
		return ports.DashboardView{Outcome: outcome, Message: domain.UserMessage(err)}
	}

	return ports.DashboardView{
		Outcome: outcome,
		Jobs:    jobs,
		Stats:   domain.AggregateJobs(jobs),
	}
}
