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
	"github.com/dkm/jobcards/internal/pkg/validate"
)

type wizardService struct {
	backend ports.Backend
	audit   ports.Auditor
	log     zerolog.Logger
}

// NewWizardService returns a WizardService implementation.
func NewWizardService(backend ports.Backend, audit ports.Auditor, log zerolog.Logger) ports.WizardService {
	if audit == nil {
		audit = ports.NopAuditor{}
	}
	return &wizardService{backend: backend, audit: audit, log: log}
}

// Lookup searches properties by phone, ERF, address or account number. It is
// only ever called on an explicit user trigger.
func (s *wizardService) Lookup(ctx context.Context, draft *ports.WizardDraft, query string) error {
	query = strings.TrimSpace(query)
	draft.Query = query
	if query == "" {
		draft.Message = domain.UserMessage(domain.ErrQueryRequired)
		return domain.ErrQueryRequired
	}

	user := session.FromContext(ctx).User()
	results, err := s.backend.LookupProperties(ctx, query)
	if err != nil {
		recordForcedLogout(s.audit, user, err)
		s.log.Debug().Err(err).Str("query", query).Msg("property lookup failed")
		draft.Message = domain.UserMessage(err)
		return err
	}
	draft.Results = results
	draft.Searched = true
	draft.Message = ""
	return nil
}

// SelectProperty picks one lookup result, loads the categories and moves to
// the capture stage. Complainant fields are seeded from the property only when
// the selection changes, so edits survive a round trip through Back.
func (s *wizardService) SelectProperty(ctx context.Context, draft *ports.WizardDraft, propertyID int64) error {
	var picked *domain.Property
	for i := range draft.Results {
		if draft.Results[i].ID == propertyID {
			p := draft.Results[i]
			picked = &p
			break
		}
	}
	if picked == nil {
		draft.Message = domain.UserMessage(domain.ErrPropertyNotFound)
		return domain.ErrPropertyNotFound
	}

	user := session.FromContext(ctx).User()
	categories, err := s.backend.ListCategories(ctx)
	if err != nil {
		recordForcedLogout(s.audit, user, err)
		s.log.Debug().Err(err).Msg("failed to load categories")
		draft.Message = domain.UserMessage(err)
		return err
	}

	if draft.Property == nil || draft.Property.ID != picked.ID {
		draft.ComplainantName = picked.AccountHolder
		draft.ComplainantPhone = picked.CellNumber
	}
	draft.Property = picked
	draft.Categories = categories
	draft.Stage = ports.StageCapture
	draft.Message = ""
	return nil
}

// Back returns to the lookup stage. The found property and everything captured
// so far are kept.
func (s *wizardService) Back(draft *ports.WizardDraft) {
	draft.Stage = ports.StageLookup
	draft.Message = ""
}

// Capture stores the stage 2 form. The values are kept even when they fail
// validation so the user can correct them.
func (s *wizardService) Capture(draft *ports.WizardDraft, in ports.CaptureInput) error {
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	in.ComplainantName = strings.TrimSpace(in.ComplainantName)
	in.ComplainantPhone = strings.TrimSpace(in.ComplainantPhone)

	draft.CategoryName = in.CategoryName
	draft.Description = in.Description
	draft.ComplainantName = in.ComplainantName
	draft.ComplainantPhone = in.ComplainantPhone

	if err := validate.Struct(in); err != nil {
		draft.Message = domain.UserMessage(err)
		return err
	}
	draft.Message = ""
	return nil
}

// Submit creates the job. Without a resolved property and category nothing is
// sent. On success the draft is reset; on failure it is left intact for a retry.
func (s *wizardService) Submit(ctx context.Context, draft *ports.WizardDraft) (*domain.Job, error) {
	category := findCategory(draft.Categories, draft.CategoryName)
	if draft.Property == nil || category == nil {
		metrics.WizardSubmissionsTotal.WithLabelValues("rejected").Inc()
		draft.Message = domain.UserMessage(domain.ErrSelectionRequired)
		return nil, domain.ErrSelectionRequired
	}

	user := session.FromContext(ctx).User()
	if user == nil {
		metrics.WizardSubmissionsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrAuthRejected
	}
	if !user.Role.CanCreateJobs() {
		metrics.WizardSubmissionsTotal.WithLabelValues("rejected").Inc()
		draft.Message = domain.UserMessage(domain.ErrNotPermitted)
		return nil, domain.ErrNotPermitted
	}

	created, err := s.backend.CreateJob(ctx, domain.NewJob{
		PropertyID:       draft.Property.ID,
		CategoryID:       category.ID,
		Description:      draft.Description,
		ComplainantName:  draft.ComplainantName,
		ComplainantPhone: draft.ComplainantPhone,
	})
	if err != nil {
		metrics.WizardSubmissionsTotal.WithLabelValues("failed").Inc()
		recordForcedLogout(s.audit, user, err)
		if !errors.Is(err, domain.ErrAuthRejected) {
			s.log.Warn().Err(err).Int64("property_id", draft.Property.ID).Msg("job creation failed")
		}
		draft.Message = domain.UserMessage(err)
		return nil, err
	}

	metrics.WizardSubmissionsTotal.WithLabelValues("ok").Inc()
	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditJobCreated,
		ActorID:   user.ID,
		ActorName: user.Name,
		JobID:     created.ID,
		Detail:    category.Name,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Int64("job_id", created.ID).Int64("user_id", user.ID).Msg("job created")

	*draft = *ports.NewWizardDraft()
	return created, nil
}

func findCategory(categories []domain.JobCategory, name string) *domain.JobCategory {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			c := categories[i]
			return &c
		}
	}
	return nil
}
