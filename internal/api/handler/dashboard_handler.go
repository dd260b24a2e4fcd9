package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type statusCount struct {
	Status domain.JobStatus
	Count  int
}

type dashboardData struct {
	View   ports.DashboardView
	Others []statusCount
}

// Show handles GET /dashboard.
func (h *DashboardHandler) Show(c echo.Context) error {
	view := h.service.Load(c.Request().Context())
	if !view.Outcome.Renders() {
		return follow(c, view.Outcome)
	}
	return render(c, http.StatusOK, "dashboard.html", "Dashboard", dashboardData{
		View:   view,
		Others: otherStatuses(view.Stats),
	})
}

// otherStatuses lists the counts that have no dedicated card.
func otherStatuses(stats domain.JobStats) []statusCount {
	var out []statusCount
	for _, s := range domain.Statuses {
		switch s {
		case domain.StatusPending, domain.StatusOnSite, domain.StatusCompleted:
			continue
		}
		out = append(out, statusCount{Status: s, Count: stats.Count(s)})
	}
	return out
}
