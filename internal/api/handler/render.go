package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkm/jobcards/internal/api/middleware"
	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the embedded HTML views. It satisfies echo.Renderer.
type Templates struct {
	t *template.Template
}

// NewTemplates parses the embedded templates.
func NewTemplates() (*Templates, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"colour":    func(s domain.JobStatus) string { return s.Colour() },
		"na":        orNA,
		"date":      formatDate,
		"yesno":     yesNo,
		"arrears":   arrears,
		"canCreate": func(u *domain.User) bool { return u != nil && u.Role.CanCreateJobs() },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{t: t}, nil
}

func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.t.ExecuteTemplate(w, name, data)
}

// page is the envelope every template receives.
type page struct {
	Title string
	User  *domain.User
	Data  any
}

// render writes a protected view, unless the session navigated away while the
// request ran; then nothing protected is written and the session middleware
// turns the response into a redirect.
func render(c echo.Context, code int, name, title string, data any) error {
	if middleware.PendingNavigation(c) != "" {
		return nil
	}
	user := session.FromContext(c.Request().Context()).User()
	return c.Render(code, name, page{Title: title, User: user, Data: data})
}

// follow applies a non-render gate outcome.
func follow(c echo.Context, outcome gate.Outcome) error {
	if outcome.Kind == gate.Wait {
		return c.Render(http.StatusOK, middleware.LoadingTemplate, page{Title: "Loading"})
	}
	if middleware.PendingNavigation(c) != "" {
		return nil
	}
	return c.Redirect(http.StatusSeeOther, outcome.Target)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func arrears(b *bool) string {
	if b == nil {
		return "N/A"
	}
	return yesNo(*b)
}
