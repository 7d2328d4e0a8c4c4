package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Event types emitted by the services and relayed by the outbox worker.
const (
	EventHospitalRegistered   = "hospital.registered"
	EventHospitalDeleted      = "hospital.deleted"
	EventSubscriptionUpgraded = "subscription.upgraded"
	EventSubscriptionExtended = "subscription.extended"
	EventSubscriptionExpiring = "subscription.expiring"
	EventPatientImported      = "patient.imported"
	EventAppointmentScheduled = "appointment.scheduled"
	EventAppointmentCancelled = "appointment.cancelled"
	EventMedicineLowStock     = "medicine.low_stock"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       string          `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
}
