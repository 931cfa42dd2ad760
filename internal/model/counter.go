package model

import (
	"time"

	"github.com/google/uuid"
)

// RequisitionCounter backs the request-id allocator. One row per
// (organization, scope) where scope is the literal id prefix, e.g. "ORB/25/P".
// The row is only ever touched with an atomic upsert-increment, never with a
// read-then-write.
type RequisitionCounter struct {
	OrganizationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"organization_id"`
	Scope          string    `gorm:"type:varchar(12);primaryKey" json:"scope"`
	LastValue      int64     `gorm:"not null" json:"last_value"`
	UpdatedAt      time.Time `json:"updated_at"`
}
