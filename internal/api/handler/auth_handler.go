package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/session"
)

type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginForm struct {
	Name     string `form:"name"     validate:"required,max=100"`
	Password string `form:"password" validate:"required,max=200"`
}

type loginData struct {
	Name  string
	Error string
}

// LoginPage handles GET /. Signed-in users go straight to the dashboard.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if session.FromContext(c.Request().Context()).Snapshot().Authenticated() {
		return c.Redirect(http.StatusSeeOther, gate.DashboardPath)
	}
	return c.Render(http.StatusOK, "login.html", page{Title: "Log in", Data: loginData{}})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.loginFailed(c, http.StatusUnprocessableEntity, form.Name, err)
	}

	if err := h.service.Login(c.Request().Context(), form.Name, form.Password); err != nil {
		code := http.StatusUnauthorized
		if errors.Is(err, domain.ErrNetwork) {
			code = http.StatusBadGateway
		}
		return h.loginFailed(c, code, form.Name, err)
	}
	return c.Redirect(http.StatusSeeOther, gate.DashboardPath)
}

func (h *AuthHandler) loginFailed(c echo.Context, code int, name string, err error) error {
	return c.Render(code, "login.html", page{
		Title: "Log in",
		Data:  loginData{Name: name, Error: domain.UserMessage(err)},
	})
}

// Callback handles GET /auth/callback?token=... from single sign-on.
func (h *AuthHandler) Callback(c echo.Context) error {
	if err := h.service.Callback(c.Request().Context(), c.QueryParam("token")); err != nil {
		return c.Redirect(http.StatusSeeOther, session.LoginPath)
	}
	return c.Redirect(http.StatusSeeOther, gate.DashboardPath)
}

// Logout handles POST /logout. The session navigates to the login page and
// the session middleware turns that into the redirect.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.service.Logout(c.Request().Context())
	return nil
}
