package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types carried in the payload envelope
const (
	TypeRequisitionUpdated = "requisition.updated"
	TypeRequisitionDeleted = "requisition.deleted"
)

// RequisitionTopic returns the per-organization topic updates are published
// on. Scoping topics by tenant keeps one organization's traffic invisible to
// another's subscribers.
func RequisitionTopic(orgID uuid.UUID) string {
	return fmt.Sprintf("org.%s.requisitions", orgID)
}

// RequisitionDeletedTopic returns the per-organization topic for deletions.
func RequisitionDeletedTopic(orgID uuid.UUID) string {
	return fmt.Sprintf("org.%s.requisitions.deleted", orgID)
}

// RequisitionEvent is the payload published after each successful workflow
// mutation.
type RequisitionEvent struct {
	EventType      string      `json:"event_type"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	RequisitionID  uuid.UUID   `json:"requisition_id"`
	RequestID      string      `json:"request_id"`
	ActorID        uuid.UUID   `json:"actor_id"`
	OccurredAt     time.Time   `json:"occurred_at"`
	Requisition    interface{} `json:"requisition,omitempty"` // full projection on updates, absent on deletes
}
