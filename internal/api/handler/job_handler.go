package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dkm/jobcards/internal/core/ports"
)

type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

type assignForm struct {
	TechnicianID string `form:"technician_id"`
}

type statusForm struct {
	Status string `form:"status"`
}

// Show handles GET /jobs/:id.
func (h *JobHandler) Show(c echo.Context) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}
	view := h.service.Detail(c.Request().Context(), id)
	return h.respond(c, view, http.StatusOK)
}

// Assign handles POST /jobs/:id/assign.
func (h *JobHandler) Assign(c echo.Context) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}
	var form assignForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	// An unparsable selection is treated as no selection.
	techID, _ := strconv.ParseInt(form.TechnicianID, 10, 64)

	ctx := c.Request().Context()
	view := h.service.Detail(ctx, id)
	if !view.Outcome.Renders() || view.Job == nil {
		return h.respond(c, view, http.StatusOK)
	}
	if err := h.service.Assign(ctx, &view, techID); err != nil {
		return h.respond(c, view, http.StatusUnprocessableEntity)
	}
	return h.respond(c, view, http.StatusOK)
}

// ChangeStatus handles POST /jobs/:id/status.
func (h *JobHandler) ChangeStatus(c echo.Context) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}
	var form statusForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	ctx := c.Request().Context()
	view := h.service.Detail(ctx, id)
	if !view.Outcome.Renders() || view.Job == nil {
		return h.respond(c, view, http.StatusOK)
	}
	if err := h.service.ChangeStatus(ctx, &view, form.Status); err != nil {
		return h.respond(c, view, http.StatusUnprocessableEntity)
	}
	return h.respond(c, view, http.StatusOK)
}

func (h *JobHandler) respond(c echo.Context, view ports.JobDetailView, code int) error {
	if !view.Outcome.Renders() {
		return follow(c, view.Outcome)
	}
	title := "Job"
	if view.Job != nil {
		title = "Job " + view.Job.Reference()
	}
	return render(c, code, "job.html", title, view)
}

func jobID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	return id, nil
}
