package ports

import (
	"context"

	"github.com/dkm/jobcards/internal/core/domain"
)

// WizardStage is the current step of the job creation wizard.
type WizardStage int

const (
	StageLookup WizardStage = iota + 1
	StageCapture
)

// WizardDraft is the state of one job creation wizard.
type WizardDraft struct {
	Stage            WizardStage          `json:"stage"`
	Query            string               `json:"query"`
	Results          []domain.Property    `json:"results"`
	Searched         bool                 `json:"searched"`
	Property         *domain.Property     `json:"property,omitempty"`
	Categories       []domain.JobCategory `json:"categories"`
	CategoryName     string               `json:"category_name"`
	Description      string               `json:"description"`
	ComplainantName  string               `json:"complainant_name"`
	ComplainantPhone string               `json:"complainant_phone"`
	Message          string               `json:"message"`
}

// NewWizardDraft returns a draft at the lookup stage.
func NewWizardDraft() *WizardDraft {
	return &WizardDraft{Stage: StageLookup}
}

// CaptureInput is the stage 2 form.
type CaptureInput struct {
	CategoryName     string `validate:"max=100"`
	Description      string `validate:"max=2000"`
	ComplainantName  string `validate:"max=120"`
	ComplainantPhone string `validate:"omitempty,min=7,max=20"`
}

// WizardService drives the two-stage job creation flow.
type WizardService interface {
	Lookup(ctx context.Context, draft *WizardDraft, query string) error
	SelectProperty(ctx context.Context, draft *WizardDraft, propertyID int64) error
	Back(draft *WizardDraft)
	Capture(draft *WizardDraft, in CaptureInput) error
	Submit(ctx context.Context, draft *WizardDraft) (*domain.Job, error)
}

// DraftStore keeps wizard drafts between requests of one browser session.
type DraftStore interface {
	Load(ctx context.Context, sessionID string) (*WizardDraft, error)
	Save(ctx context.Context, sessionID string, draft *WizardDraft) error
	Clear(ctx context.Context, sessionID string) error
}
