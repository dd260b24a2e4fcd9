package domain

import "time"

// AuditAction names a user-initiated action recorded in the activity log.
type AuditAction string

const (
	AuditLogin        AuditAction = "login"
	AuditLogout       AuditAction = "logout"
	AuditForcedLogout AuditAction = "forced_logout"
	AuditAssign       AuditAction = "assign"
	AuditStatusChange AuditAction = "status_change"
	AuditJobCreated   AuditAction = "job_created"
)

// AuditEvent is one entry of the activity log.
type AuditEvent struct {
	ID        string
	Action    AuditAction
	ActorID   int64
	ActorName string
	JobID     int64
	Detail    string
	Timestamp time.Time
}
