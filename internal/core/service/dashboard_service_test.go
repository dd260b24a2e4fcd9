package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/session"
	"github.com/dkm/jobcards/internal/core/session/sessiontest"
)

func TestDashboardService_Load_Aggregates(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, director)
	backend := newStubBackend()
	backend.jobs = []domain.Job{
		{ID: 1, Status: domain.StatusPending},
		{ID: 2, Status: domain.StatusPending},
		{ID: 3, Status: domain.StatusCompleted},
	}
	svc := NewDashboardService(backend, nil, zerolog.Nop())

	view := svc.Load(ctx)
	if !view.Outcome.Renders() {
		t.Fatalf("expected render, got %v", view.Outcome)
	}
	if view.Stats.Pending() != 2 || view.Stats.Completed() != 1 || view.Stats.Total != 3 {
		t.Fatalf("unexpected stats %+v", view.Stats)
	}
	if len(view.Jobs) != 3 || view.Message != "" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestDashboardService_Load_WaitsWhileLoading(t *testing.T) {
	store := session.NewStore(&session.MemoryStorage{}, nil)
	ctx := session.WithStore(context.Background(), store)
	backend := newStubBackend()
	svc := NewDashboardService(backend, nil, zerolog.Nop())

	view := svc.Load(ctx)
	if view.Outcome.Kind != gate.Wait {
		t.Fatalf("expected wait, got %v", view.Outcome)
	}
	if backend.total() != 0 {
		t.Fatalf("expected no fetch while loading")
	}
}

func TestDashboardService_Load_RedirectsAnonymous(t *testing.T) {
	ctx, _, _ := sessiontest.Anonymous(t)
	backend := newStubBackend()
	svc := NewDashboardService(backend, nil, zerolog.Nop())

	view := svc.Load(ctx)
	if view.Outcome != gate.RedirectTo(session.LoginPath) {
		t.Fatalf("expected redirect to login, got %v", view.Outcome)
	}
	if backend.total() != 0 {
		t.Fatalf("expected no fetch without a session")
	}
}

func TestDashboardService_Load_RejectedSession(t *testing.T) {
	ctx, store, nav := sessiontest.LoggedIn(t, director)
	backend := newStubBackend()
	backend.rejectSession = true
	audit := &recordingAuditor{}
	svc := NewDashboardService(backend, audit, zerolog.Nop())

	view := svc.Load(ctx)
	if view.Outcome != gate.RedirectTo(session.LoginPath) {
		t.Fatalf("expected redirect to login, got %v", view.Outcome)
	}
	if view.Jobs != nil || view.Stats.Total != 0 {
		t.Fatalf("expected no protected content, got %+v", view)
	}
	if store.Token() != "" || len(nav.Targets) != 1 {
		t.Fatalf("expected session cleared with one redirect, got %v", nav.Targets)
	}
	if got := audit.actions(); len(got) != 1 || got[0] != domain.AuditForcedLogout {
		t.Fatalf("expected forced logout audit, got %v", got)
	}
}

func TestDashboardService_Load_RequestFailed(t *testing.T) {
	ctx, store, _ := sessiontest.LoggedIn(t, director)
	backend := newStubBackend()
	backend.err = &domain.APIError{Kind: domain.ErrRequestFailed, Status: 500, Message: "boom"}
	svc := NewDashboardService(backend, nil, zerolog.Nop())

	view := svc.Load(ctx)
	if !view.Outcome.Renders() || view.Message != "boom" {
		t.Fatalf("unexpected view %+v", view)
	}
	if !store.Snapshot().Authenticated() {
		t.Fatalf("expected session untouched")
	}
}
