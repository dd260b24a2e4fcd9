package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/session"
)

// LoadingTemplate is rendered while the session is still being restored.
const LoadingTemplate = "loading.html"

// RequireRoles guards a route with the auth gate. It must run after Session.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := session.FromContext(c.Request().Context())

			outcome := gate.Evaluate(store.Snapshot(), allowed...)
			switch outcome.Kind {
			case gate.Wait:
				return c.Render(http.StatusOK, LoadingTemplate, nil)
			case gate.Redirect:
				return c.Redirect(http.StatusSeeOther, outcome.Target)
			default:
				return next(c)
			}
		}
	}
}
