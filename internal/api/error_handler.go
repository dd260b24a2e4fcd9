package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/core/domain"
)

// errorPage is the data handed to the error template.
type errorPage struct {
	Title string
	User  *domain.User
	Data  string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the error page, or plain text when no renderer is configured.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if c.Echo().Renderer != nil {
			if renderErr := c.Render(code, "error.html", errorPage{Title: "Error", Data: msg}); renderErr == nil {
				return
			}
		}
		_ = c.String(code, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotPermitted):
		return http.StatusForbidden, domain.UserMessage(err)
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, domain.UserMessage(err)
	case errors.Is(err, domain.ErrAuthRejected):
		return http.StatusUnauthorized, domain.UserMessage(err)
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway, domain.UserMessage(err)
	case errors.Is(err, domain.ErrRequestFailed):
		return http.StatusBadGateway, domain.UserMessage(err)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
