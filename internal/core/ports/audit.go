package ports

import (
	"context"
	"time"
)

// Audit actions recorded on the trail.
const (
	AuditLoginSuccess = "login_success"
	AuditLoginFailed  = "login_failed"
	AuditTokenRefresh = "token_refresh"
	AuditUserCreated  = "user_created"
	AuditUserDeleted  = "user_deleted"
	AuditRoleChanged  = "role_changed"
)

// AuditEvent is one entry on the account activity trail.
type AuditEvent struct {
	UserID int64
	Action string
	Detail string
	At     time.Time
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditSink accepts events for asynchronous recording. Implementations must
// not block the request path.
type AuditSink interface {
	Enqueue(event AuditEvent)
}
