package queue

import "time"

// Queue that audit events are published to.
const AuditQueue = "auth.audit"

// Audit event actions.
const (
	ActionLogin   = "login"
	ActionRefresh = "refresh"
	ActionLogout  = "logout"
)

// AuditEvent records a session lifecycle action for downstream consumers
// (audit trails, anomaly detection).
type AuditEvent struct {
	Action   string    `json:"action"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}
