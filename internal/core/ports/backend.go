package ports

import (
	"context"

	"github.com/dkm/jobcards/internal/core/domain"
)

// Backend is the REST backend as seen by the client. Every method except
// Login reads the session token from the store carried by ctx.
type Backend interface {
	// Login exchanges credentials for a token. It never touches the session.
	Login(ctx context.Context, name, password string) (string, error)

	ListJobs(ctx context.Context) ([]domain.Job, error)
	GetJob(ctx context.Context, id int64) (*domain.DetailedJob, error)
	AssignJob(ctx context.Context, id, technicianID int64) (*domain.DetailedJob, error)
	UpdateJobStatus(ctx context.Context, id int64, status domain.JobStatus) (*domain.DetailedJob, error)
	CreateJob(ctx context.Context, job domain.NewJob) (*domain.Job, error)

	ListCategories(ctx context.Context) ([]domain.JobCategory, error)
	LookupProperties(ctx context.Context, query string) ([]domain.Property, error)
	ListTechnicians(ctx context.Context) ([]domain.User, error)
}
