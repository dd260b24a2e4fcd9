package ports

import (
	"context"

	"github.com/dkm/jobcards/internal/core/domain"
)

// AuditRepository persists activity log entries.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}

// Auditor accepts activity log entries without blocking the caller.
type Auditor interface {
	Record(event domain.AuditEvent)
}

// NopAuditor drops every event.
type NopAuditor struct{}

func (NopAuditor) Record(domain.AuditEvent) {}
