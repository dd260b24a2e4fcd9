package gate

import (
	"testing"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/session"
)

func TestEvaluate_Matrix(t *testing.T) {
	admin := &domain.User{ID: 1, Name: "admin", Role: domain.RoleSystemAdmin}
	tech := &domain.User{ID: 2, Name: "tech", Role: domain.RoleTechnician}

	cases := []struct {
		name string
		snap session.Snapshot
		want Outcome
	}{
		{"loading", session.Snapshot{Loading: true}, Waiting()},
		{"loading with stale user", session.Snapshot{Loading: true, Token: "t", User: admin}, Waiting()},
		{"no session", session.Snapshot{}, RedirectTo(session.LoginPath)},
		{"user without token", session.Snapshot{User: admin}, RedirectTo(session.LoginPath)},
		{"wrong role", session.Snapshot{Token: "t", User: tech}, RedirectTo(DashboardPath)},
		{"correct role", session.Snapshot{Token: "t", User: admin}, Rendering()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.snap, domain.RoleSystemAdmin, domain.RoleDepartmentAdmin)
			if got != tc.want {
				t.Fatalf("expected %s %q, got %s %q", tc.want.Kind, tc.want.Target, got.Kind, got.Target)
			}
		})
	}
}

func TestEvaluate_NoRolesAdmitsAnyUser(t *testing.T) {
	snap := session.Snapshot{Token: "t", User: &domain.User{Role: domain.RoleCouncillor}}
	if got := Evaluate(snap); !got.Renders() {
		t.Fatalf("expected render, got %s", got.Kind)
	}
}
