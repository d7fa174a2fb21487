package dto

import (
	"encoding/json"
	"time"

	"atithi/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse is one audit trail row.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	UserEmail  string          `json:"userEmail,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuditEntryFromModel converts an audit entry to a response.
func AuditEntryFromModel(e postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID.String(),
		Action:     string(e.Action),
		UserID:     e.UserID,
		UserEmail:  e.UserEmail,
		Changes:    e.Changes,
		CreatedAt:  e.CreatedAt,
	}
}
