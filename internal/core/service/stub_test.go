package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/session"
)

// ---------------------------------------------------------------------------
// In-memory stub backend
// ---------------------------------------------------------------------------

type stubBackend struct {
	mu    sync.Mutex
	calls map[string]int

	loginFn       func(name, password string) (string, error)
	jobs          []domain.Job
	job           *domain.DetailedJob
	technicians   []domain.User
	categories    []domain.JobCategory
	properties    []domain.Property
	created       *domain.Job
	lastNewJob    domain.NewJob
	lastStatus    domain.JobStatus
	lastTechID    int64
	err           error // returned by every protected call when set
	rejectSession bool  // emulate a 403: tear the session down, then fail
}

func newStubBackend() *stubBackend {
	return &stubBackend{calls: make(map[string]int)}
}

func (b *stubBackend) count(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[name]++
}

func (b *stubBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

func (b *stubBackend) fail(ctx context.Context) error {
	if b.rejectSession {
		session.FromContext(ctx).Logout(ctx)
		return &domain.APIError{Kind: domain.ErrAuthRejected, Status: http.StatusForbidden}
	}
	return b.err
}

func (b *stubBackend) Login(_ context.Context, name, password string) (string, error) {
	b.count("Login")
	return b.loginFn(name, password)
}

func (b *stubBackend) ListJobs(ctx context.Context) ([]domain.Job, error) {
	b.count("ListJobs")
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	return b.jobs, nil
}

func (b *stubBackend) GetJob(ctx context.Context, id int64) (*domain.DetailedJob, error) {
	b.count("GetJob")
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	clone := *b.job
	return &clone, nil
}

func (b *stubBackend) AssignJob(ctx context.Context, id, technicianID int64) (*domain.DetailedJob, error) {
	b.count("AssignJob")
	b.lastTechID = technicianID
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	clone := *b.job
	clone.Status = domain.StatusAssigned
	clone.Technician = &domain.TechnicianRef{ID: technicianID, Name: "Tech"}
	return &clone, nil
}

func (b *stubBackend) UpdateJobStatus(ctx context.Context, id int64, status domain.JobStatus) (*domain.DetailedJob, error) {
	b.count("UpdateJobStatus")
	b.lastStatus = status
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	clone := *b.job
	clone.Status = status
	return &clone, nil
}

func (b *stubBackend) CreateJob(ctx context.Context, job domain.NewJob) (*domain.Job, error) {
	b.count("CreateJob")
	b.lastNewJob = job
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	return b.created, nil
}

func (b *stubBackend) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	b.count("ListCategories")
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	return b.categories, nil
}

func (b *stubBackend) LookupProperties(ctx context.Context, query string) ([]domain.Property, error) {
	b.count("LookupProperties")
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	return b.properties, nil
}

func (b *stubBackend) ListTechnicians(ctx context.Context) ([]domain.User, error) {
	b.count("ListTechnicians")
	if err := b.fail(ctx); err != nil {
		return nil, err
	}
	return b.technicians, nil
}

// ---------------------------------------------------------------------------
// Recording auditor
// ---------------------------------------------------------------------------

type recordingAuditor struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAuditor) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAuditor) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

var (
	sysAdmin   = domain.User{ID: 1, Name: "Thandi", Role: domain.RoleSystemAdmin}
	agent      = domain.User{ID: 2, Name: "Lerato", Role: domain.RoleCallCentreAgent}
	technician = domain.User{ID: 4, Name: "Sipho", Role: domain.RoleTechnician}
	director   = domain.User{ID: 5, Name: "Naledi", Role: domain.RoleDirector}
)
