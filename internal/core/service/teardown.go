package service

import (
	"errors"
	"time"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/session"
)

// recordForcedLogout notes a session the backend rejected mid-flight.
func recordForcedLogout(audit ports.Auditor, user *domain.User, err error) {
	if user == nil || !errors.Is(err, domain.ErrAuthRejected) {
		return
	}
	audit.Record(domain.AuditEvent{
		Action:    domain.AuditForcedLogout,
		ActorID:   user.ID,
		ActorName: user.Name,
		Detail:    err.Error(),
		Timestamp: time.Now().UTC(),
	})
}

// rejected returns the redirect to show once the backend has torn the session
// down, so no protected content is rendered under the cleared token.
func rejected(err error) *gate.Outcome {
	if !errors.Is(err, domain.ErrAuthRejected) {
		return nil
	}
	o := gate.RedirectTo(session.LoginPath)
	return &o
}
