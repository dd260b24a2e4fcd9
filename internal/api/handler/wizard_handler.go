package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/api/middleware"
	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/ports"
)

// WizardHandler serves the two-stage job creation flow. The draft lives in a
// DraftStore keyed by the browser session.
type WizardHandler struct {
	service ports.WizardService
	drafts  ports.DraftStore
	log     zerolog.Logger
}

func NewWizardHandler(service ports.WizardService, drafts ports.DraftStore, log zerolog.Logger) *WizardHandler {
	return &WizardHandler{service: service, drafts: drafts, log: log}
}

type lookupForm struct {
	Query string `form:"query"`
}

type selectForm struct {
	PropertyID string `form:"property_id"`
}

type captureForm struct {
	Category         string `form:"category"`
	Description      string `form:"description"`
	ComplainantName  string `form:"complainant_name"`
	ComplainantPhone string `form:"complainant_phone"`
}

// Show handles GET /jobs/new.
func (h *WizardHandler) Show(c echo.Context) error {
	draft, err := h.load(c)
	if err != nil {
		return err
	}
	// Messages belong to the action that produced them.
	draft.Message = ""
	return h.page(c, http.StatusOK, draft)
}

// Lookup handles POST /jobs/new/lookup.
func (h *WizardHandler) Lookup(c echo.Context) error {
	var form lookupForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	return h.step(c, func(ctx context.Context, draft *ports.WizardDraft) error {
		return h.service.Lookup(ctx, draft, form.Query)
	})
}

// Select handles POST /jobs/new/select.
func (h *WizardHandler) Select(c echo.Context) error {
	var form selectForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	id, _ := strconv.ParseInt(form.PropertyID, 10, 64)
	return h.step(c, func(ctx context.Context, draft *ports.WizardDraft) error {
		return h.service.SelectProperty(ctx, draft, id)
	})
}

// Back handles POST /jobs/new/back.
func (h *WizardHandler) Back(c echo.Context) error {
	return h.step(c, func(_ context.Context, draft *ports.WizardDraft) error {
		h.service.Back(draft)
		return nil
	})
}

// Submit handles POST /jobs/new/submit: it captures the stage 2 form and
// creates the job. On success the draft is dropped and the user lands on the
// dashboard.
func (h *WizardHandler) Submit(c echo.Context) error {
	var form captureForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	draft, err := h.load(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	err = h.service.Capture(draft, ports.CaptureInput{
		CategoryName:     form.Category,
		Description:      form.Description,
		ComplainantName:  form.ComplainantName,
		ComplainantPhone: form.ComplainantPhone,
	})
	if err == nil {
		var job *domain.Job
		job, err = h.service.Submit(ctx, draft)
		if err == nil {
			if clearErr := h.drafts.Clear(ctx, middleware.SessionID(c)); clearErr != nil {
				h.log.Warn().Err(clearErr).Msg("failed to clear wizard draft")
			}
			h.log.Info().Int64("job_id", job.ID).Msg("job created from wizard")
			return c.Redirect(http.StatusSeeOther, gate.DashboardPath)
		}
	}

	if saveErr := h.drafts.Save(ctx, middleware.SessionID(c), draft); saveErr != nil {
		return saveErr
	}
	return h.page(c, statusFor(err), draft)
}

// step loads the draft, applies fn, saves the draft and re-renders the wizard.
func (h *WizardHandler) step(c echo.Context, fn func(context.Context, *ports.WizardDraft) error) error {
	draft, err := h.load(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	stepErr := fn(ctx, draft)
	if err := h.drafts.Save(ctx, middleware.SessionID(c), draft); err != nil {
		return err
	}
	return h.page(c, statusFor(stepErr), draft)
}

func (h *WizardHandler) load(c echo.Context) (*ports.WizardDraft, error) {
	draft, err := h.drafts.Load(c.Request().Context(), middleware.SessionID(c))
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (h *WizardHandler) page(c echo.Context, code int, draft *ports.WizardDraft) error {
	return render(c, code, "wizard.html", "Create job", draft)
}

func statusFor(err error) int {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrSelectionRequired),
		errors.Is(err, domain.ErrQueryRequired),
		errors.Is(err, domain.ErrPropertyNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}
