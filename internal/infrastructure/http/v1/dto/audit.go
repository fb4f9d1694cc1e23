package dto

import (
	"encoding/json"
	"time"

	"mercatus/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse is a single audit history record.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	UserID    string          `json:"userId,omitempty"`
	UserEmail string          `json:"userEmail,omitempty"`
	Changes   json.RawMessage `json:"changes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// FromAuditEntry converts a storage audit entry to its response form.
func FromAuditEntry(e postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID.String(),
		Action:    string(e.Action),
		UserID:    e.UserID,
		UserEmail: e.UserEmail,
		Changes:   e.Changes,
		CreatedAt: e.CreatedAt,
	}
}
