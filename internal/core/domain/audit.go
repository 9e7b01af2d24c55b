package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited operator action.
type AuditAction string

const (
	AuditActionLogin           AuditAction = "LOGIN"
	AuditActionUpdatePayments  AuditAction = "UPDATE_PAYMENTS"
	AuditActionSendEmail       AuditAction = "SEND_EMAIL"
	AuditActionSaveEmailRule   AuditAction = "SAVE_EMAIL_RULE"
	AuditActionDeleteEmailRule AuditAction = "DELETE_EMAIL_RULE"
	AuditActionSeedTestData    AuditAction = "SEED_TEST_DATA"
	AuditActionPurgeTestData   AuditAction = "PURGE_TEST_DATA"
)

// AuditLog records a single operator action.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        string      `json:"actor,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
