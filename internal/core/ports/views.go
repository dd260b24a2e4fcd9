package ports

import (
	"context"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
)

// AuthService drives the login, SSO callback and logout flows against the
// session carried by ctx.
type AuthService interface {
	Login(ctx context.Context, name, password string) error
	Callback(ctx context.Context, token string) error
	Logout(ctx context.Context)
}

// DashboardView is everything the dashboard renders.
type DashboardView struct {
	Outcome gate.Outcome
	Jobs    []domain.Job
	Stats   domain.JobStats
	Message string
}

// DashboardService loads the job list and its statistics.
type DashboardService interface {
	Load(ctx context.Context) DashboardView
}

// JobDetailView is the job detail screen. Job is replaced only with a job the
// server returned.
type JobDetailView struct {
	Outcome         gate.Outcome
	Job             *domain.DetailedJob
	Technicians     []domain.User
	CanAssign       bool
	CanChangeStatus bool
	StatusOptions   []domain.JobStatus
	Message         string
	Notice          string
}

// JobService loads a job and runs its assignment and status workflows.
// Assign and ChangeStatus update view in place and also return the error so
// non-visual callers can react to it.
type JobService interface {
	Detail(ctx context.Context, id int64) JobDetailView
	Assign(ctx context.Context, view *JobDetailView, technicianID int64) error
	ChangeStatus(ctx context.Context, view *JobDetailView, target string) error
}
