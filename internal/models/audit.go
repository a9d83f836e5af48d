package models

import "time"

// Audit actions recorded for catalog writes.
const (
	AuditActionCoursesSave  = "CATALOG_COURSES_SAVE"
	AuditActionSectionsSave = "CATALOG_SECTIONS_SAVE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    *string   `db:"user_id" json:"user_id,omitempty"`
	Role      string    `db:"role" json:"role"`
	Action    string    `db:"action" json:"action"`
	Details   []byte    `db:"details" json:"details,omitempty"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
