package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/pkg/metrics"
	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/session"
)

const (
	actionAssign = "assign"
	actionStatus = "status"
)

type jobService struct {
	backend ports.Backend
	audit   ports.Auditor
	log     zerolog.Logger
}

// NewJobService returns a JobService implementation.
func NewJobService(backend ports.Backend, audit ports.Auditor, log zerolog.Logger) ports.JobService {
	if audit == nil {
		audit = ports.NopAuditor{}
	}
	return &jobService{backend: backend, audit: audit, log: log}
}

// Detail fetches one job and, for admins, the technicians it can be assigned to.
func (s *jobService) Detail(ctx context.Context, id int64) ports.JobDetailView {
	snap := session.FromContext(ctx).Snapshot()
	outcome := gate.Evaluate(snap, domain.AllRoles...)
	if !outcome.Renders() {
		return ports.JobDetailView{Outcome: outcome}
	}

	view := ports.JobDetailView{Outcome: outcome, StatusOptions: domain.Statuses}
	job, err := s.backend.GetJob(ctx, id)
	if err != nil {
		recordForcedLogout(s.audit, snap.User, err)
		if redirect := rejected(err); redirect != nil {
			return ports.JobDetailView{Outcome: *redirect}
		}
		s.log.Warn().Err(err).Int64("job_id", id).Msg("failed to load job")
		view.Message = domain.UserMessage(err)
		return view
	}
	view.Job = job
	permissions(&view, snap.User)

	if view.CanAssign {
		techs, err := s.backend.ListTechnicians(ctx)
		if err != nil {
			recordForcedLogout(s.audit, snap.User, err)
			if redirect := rejected(err); redirect != nil {
				return ports.JobDetailView{Outcome: *redirect}
			}
			s.log.Warn().Err(err).Msg("failed to load technicians")
			view.Message = domain.UserMessage(err)
		}
		view.Technicians = techs
	}
	return view
}

// Assign hands the job to a technician. Nothing is sent unless the caller is
// an admin and a technician is selected.
func (s *jobService) Assign(ctx context.Context, view *ports.JobDetailView, technicianID int64) error {
	user, err := s.actor(ctx, view)
	if err != nil {
		return s.reject(view, actionAssign, err)
	}
	if !user.Role.IsAdmin() {
		return s.reject(view, actionAssign, domain.ErrNotPermitted)
	}
	if technicianID <= 0 {
		return s.reject(view, actionAssign, domain.ErrTechnicianRequired)
	}

	updated, err := s.backend.AssignJob(ctx, view.Job.ID, technicianID)
	if err != nil {
		return s.fail(view, actionAssign, user, err)
	}

	s.apply(view, actionAssign, updated, user, "Technician assigned.")
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditAssign,
		ActorID:   user.ID,
		ActorName: user.Name,
		JobID:     updated.ID,
		Detail:    "technician " + strconv.FormatInt(technicianID, 10),
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// ChangeStatus moves the job to target. Admins and the assigned technician may
// do so until the job is completed.
func (s *jobService) ChangeStatus(ctx context.Context, view *ports.JobDetailView, target string) error {
	user, err := s.actor(ctx, view)
	if err != nil {
		return s.reject(view, actionStatus, err)
	}
	if !canChangeStatus(view.Job, user) {
		if view.Job.Status.IsTerminal() {
			return s.reject(view, actionStatus, domain.ErrJobClosed)
		}
		return s.reject(view, actionStatus, domain.ErrNotPermitted)
	}
	status := domain.JobStatus(target)
	if !status.Valid() {
		return s.reject(view, actionStatus, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, target))
	}

	from := view.Job.Status
	updated, err := s.backend.UpdateJobStatus(ctx, view.Job.ID, status)
	if err != nil {
		return s.fail(view, actionStatus, user, err)
	}

	s.apply(view, actionStatus, updated, user, "Status updated.")
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditStatusChange,
		ActorID:   user.ID,
		ActorName: user.Name,
		JobID:     updated.ID,
		Detail:    fmt.Sprintf("%s -> %s", from, updated.Status),
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// actor returns the session user acting on a loaded job.
func (s *jobService) actor(ctx context.Context, view *ports.JobDetailView) (*domain.User, error) {
	user := session.FromContext(ctx).User()
	if user == nil {
		view.Outcome = gate.RedirectTo(session.LoginPath)
		return nil, domain.ErrAuthRejected
	}
	if view.Job == nil {
		return nil, &domain.ValidationError{Message: "The job has not been loaded."}
	}
	return user, nil
}

func (s *jobService) reject(view *ports.JobDetailView, action string, err error) error {
	metrics.JobActionsTotal.WithLabelValues(action, "rejected").Inc()
	view.Message = domain.UserMessage(err)
	view.Notice = ""
	return err
}

// fail reports a backend failure without touching the job on screen.
func (s *jobService) fail(view *ports.JobDetailView, action string, user *domain.User, err error) error {
	metrics.JobActionsTotal.WithLabelValues(action, "failed").Inc()
	recordForcedLogout(s.audit, user, err)
	if redirect := rejected(err); redirect != nil {
		*view = ports.JobDetailView{Outcome: *redirect}
		return err
	}
	s.log.Warn().Err(err).Int64("job_id", view.Job.ID).Str("action", action).Msg("job action failed")
	view.Message = domain.UserMessage(err)
	view.Notice = ""
	return err
}

func (s *jobService) apply(view *ports.JobDetailView, action string, updated *domain.DetailedJob, user *domain.User, notice string) {
	metrics.JobActionsTotal.WithLabelValues(action, "ok").Inc()
	view.Job = updated
	view.Message = ""
	view.Notice = notice
	permissions(view, user)
	s.log.Info().Int64("job_id", updated.ID).Str("status", string(updated.Status)).Int64("user_id", user.ID).Msg("job " + action + " applied")
}

func permissions(view *ports.JobDetailView, user *domain.User) {
	if user == nil || view.Job == nil {
		view.CanAssign, view.CanChangeStatus = false, false
		return
	}
	view.CanAssign = user.Role.IsAdmin()
	view.CanChangeStatus = canChangeStatus(view.Job, user)
}

func canChangeStatus(job *domain.DetailedJob, user *domain.User) bool {
	if job.Status.IsTerminal() {
		return false
	}
	return user.Role.IsAdmin() || job.AssignedTo(user.ID)
}
