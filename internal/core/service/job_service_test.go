package service

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/session"
	"github.com/dkm/jobcards/internal/core/session/sessiontest"
)

func pendingJob() *domain.DetailedJob {
	return &domain.DetailedJob{
		Job:         domain.Job{ID: 9, ReferenceNumber: "JC-009", Status: domain.StatusPending},
		Description: "Burst pipe",
	}
}

func TestJobService_Detail_AdminSeesTechnicians(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, sysAdmin)
	backend := newStubBackend()
	backend.job = pendingJob()
	backend.technicians = []domain.User{technician}
	svc := NewJobService(backend, nil, zerolog.Nop())

	view := svc.Detail(ctx, 9)
	if !view.Outcome.Renders() || view.Job == nil || view.Job.ID != 9 {
		t.Fatalf("unexpected view %+v", view)
	}
	if !view.CanAssign || !view.CanChangeStatus {
		t.Fatalf("expected admin to assign and change status")
	}
	if len(view.Technicians) != 1 {
		t.Fatalf("expected technicians loaded, got %v", view.Technicians)
	}
}

func TestJobService_Detail_TechnicianPermissions(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, technician)
	backend := newStubBackend()
	job := pendingJob()
	job.Technician = &domain.TechnicianRef{ID: technician.ID, Name: technician.Name}
	backend.job = job
	svc := NewJobService(backend, nil, zerolog.Nop())

	view := svc.Detail(ctx, 9)
	if view.CanAssign {
		t.Fatalf("technician must not assign")
	}
	if !view.CanChangeStatus {
		t.Fatalf("assigned technician should change status")
	}
	if backend.calls["ListTechnicians"] != 0 {
		t.Fatalf("technicians should only be loaded for admins")
	}
}

func TestJobService_Detail_OtherTechnicianCannotChangeStatus(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, technician)
	backend := newStubBackend()
	job := pendingJob()
	job.Technician = &domain.TechnicianRef{ID: 99, Name: "Someone else"}
	backend.job = job
	svc := NewJobService(backend, nil, zerolog.Nop())

	view := svc.Detail(ctx, 9)
	if view.CanChangeStatus {
		t.Fatalf("unassigned technician must not change status")
	}
	if err := svc.ChangeStatus(ctx, &view, string(domain.StatusOnSite)); !errors.Is(err, domain.ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
	if backend.calls["UpdateJobStatus"] != 0 {
		t.Fatalf("expected no status request")
	}
}

func TestJobService_Assign_RequiresTechnician(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, sysAdmin)
	backend := newStubBackend()
	svc := NewJobService(backend, nil, zerolog.Nop())
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: pendingJob()}

	err := svc.Assign(ctx, &view, 0)
	if !errors.Is(err, domain.ErrTechnicianRequired) {
		t.Fatalf("expected ErrTechnicianRequired, got %v", err)
	}
	if view.Message != "Please select a technician." {
		t.Fatalf("unexpected message %q", view.Message)
	}
	if backend.total() != 0 {
		t.Fatalf("expected no request, got %v", backend.calls)
	}
}

func TestJobService_Assign_NotAdmin(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, agent)
	backend := newStubBackend()
	svc := NewJobService(backend, nil, zerolog.Nop())
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: pendingJob()}

	if err := svc.Assign(ctx, &view, technician.ID); !errors.Is(err, domain.ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted, got %v", err)
	}
	if backend.total() != 0 {
		t.Fatalf("expected no request")
	}
}

func TestJobService_Assign_Success(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, sysAdmin)
	backend := newStubBackend()
	backend.job = pendingJob()
	audit := &recordingAuditor{}
	svc := NewJobService(backend, audit, zerolog.Nop())
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: pendingJob()}

	if err := svc.Assign(ctx, &view, technician.ID); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if backend.lastTechID != technician.ID {
		t.Fatalf("unexpected technician sent %d", backend.lastTechID)
	}
	if view.Job.Status != domain.StatusAssigned || !view.Job.AssignedTo(technician.ID) {
		t.Fatalf("expected server job applied, got %+v", view.Job)
	}
	if view.Notice == "" || view.Message != "" {
		t.Fatalf("unexpected notice/message %q/%q", view.Notice, view.Message)
	}
	if got := audit.actions(); len(got) != 1 || got[0] != domain.AuditAssign {
		t.Fatalf("expected assign audit, got %v", got)
	}
}

func TestJobService_Assign_FailureKeepsJob(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, sysAdmin)
	backend := newStubBackend()
	backend.job = pendingJob()
	backend.err = &domain.APIError{Kind: domain.ErrRequestFailed, Status: 409, Message: "Technician is unavailable"}
	svc := NewJobService(backend, nil, zerolog.Nop())
	original := pendingJob()
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: original}

	if err := svc.Assign(ctx, &view, technician.ID); !errors.Is(err, domain.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if view.Job != original || view.Job.Status != domain.StatusPending {
		t.Fatalf("job must not change on failure")
	}
	if view.Message != "Technician is unavailable" {
		t.Fatalf("unexpected message %q", view.Message)
	}
}

func TestJobService_Assign_RejectedSession(t *testing.T) {
	ctx, store, nav := sessiontest.LoggedIn(t, sysAdmin)
	backend := newStubBackend()
	backend.job = pendingJob()
	backend.rejectSession = true
	svc := NewJobService(backend, nil, zerolog.Nop())
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: pendingJob()}

	if err := svc.Assign(ctx, &view, technician.ID); !errors.Is(err, domain.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if view.Outcome != gate.RedirectTo(session.LoginPath) || view.Job != nil {
		t.Fatalf("expected protected content dropped, got %+v", view)
	}
	if store.Token() != "" || len(nav.Targets) != 1 {
		t.Fatalf("expected session torn down once")
	}
}

func TestJobService_ChangeStatus_Completed(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, sysAdmin)
	backend := newStubBackend()
	svc := NewJobService(backend, nil, zerolog.Nop())
	job := pendingJob()
	job.Status = domain.StatusCompleted
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: job}

	if err := svc.ChangeStatus(ctx, &view, string(domain.StatusOnHold)); !errors.Is(err, domain.ErrJobClosed) {
		t.Fatalf("expected ErrJobClosed, got %v", err)
	}
	if backend.total() != 0 {
		t.Fatalf("expected no request")
	}
}

func TestJobService_ChangeStatus_InvalidTarget(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, sysAdmin)
	backend := newStubBackend()
	svc := NewJobService(backend, nil, zerolog.Nop())
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: pendingJob()}

	if err := svc.ChangeStatus(ctx, &view, "Teleported"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if backend.total() != 0 {
		t.Fatalf("expected no request")
	}
}

func TestJobService_ChangeStatus_AssignedTechnician(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, technician)
	backend := newStubBackend()
	job := pendingJob()
	job.Status = domain.StatusAssigned
	job.Technician = &domain.TechnicianRef{ID: technician.ID}
	backend.job = job
	audit := &recordingAuditor{}
	svc := NewJobService(backend, audit, zerolog.Nop())
	current := *job
	view := ports.JobDetailView{Outcome: gate.Rendering(), Job: &current}

	if err := svc.ChangeStatus(ctx, &view, string(domain.StatusCompleted)); err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}
	if backend.lastStatus != domain.StatusCompleted || view.Job.Status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", view.Job.Status)
	}
	if view.CanChangeStatus {
		t.Fatalf("completed job must not offer further status changes")
	}
	if got := audit.events; len(got) != 1 || got[0].Detail != "Assigned -> Completed" {
		t.Fatalf("unexpected audit %+v", got)
	}
}
