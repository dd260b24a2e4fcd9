package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/session"
	"github.com/dkm/jobcards/internal/core/session/sessiontest"
)

func gateContext(ctx context.Context) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Renderer = stubRenderer{}
	req := httptest.NewRequest(http.MethodGet, "/jobs/new", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireRoles_Allows(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, domain.User{ID: 1, Name: "Thandi", Role: domain.RoleSystemAdmin})
	c, rec := gateContext(ctx)

	called := false
	handler := RequireRoles(domain.JobCreatorRoles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next handler, got %d", rec.Code)
	}
}

func TestRequireRoles_WrongRole(t *testing.T) {
	ctx, _, _ := sessiontest.LoggedIn(t, domain.User{ID: 4, Name: "Sipho", Role: domain.RoleTechnician})
	c, rec := gateContext(ctx)

	handler := RequireRoles(domain.JobCreatorRoles...)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	_ = handler(c)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != gate.DashboardPath {
		t.Fatalf("expected 303 to dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRequireRoles_Anonymous(t *testing.T) {
	ctx, _, _ := sessiontest.Anonymous(t)
	c, rec := gateContext(ctx)

	handler := RequireRoles(domain.AllRoles...)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	_ = handler(c)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != session.LoginPath {
		t.Fatalf("expected 303 to login, got %d", rec.Code)
	}
}

func TestRequireRoles_WaitsWhileLoading(t *testing.T) {
	user := domain.User{ID: 1, Name: "Thandi", Role: domain.RoleSystemAdmin}
	storage := &session.MemoryStorage{}
	_ = storage.Save(context.Background(), sessiontest.Token(t, user, time.Now().Add(time.Hour)))
	store := session.NewStore(storage, nil)
	c, rec := gateContext(session.WithStore(context.Background(), store))

	handler := RequireRoles(domain.AllRoles...)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "rendered:"+LoadingTemplate {
		t.Fatalf("expected loading page without redirect, got %d %q", rec.Code, rec.Body.String())
	}
}
