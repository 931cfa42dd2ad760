package model

import (
	"time"

	"github.com/google/uuid"
)

// Per-approver decision states. Distinct from the aggregate approval status
// on the requisition: each manager holds exactly one of these.
const (
	ApproverPending  = "PENDING"
	ApproverApproved = "APPROVED"
	ApproverRejected = "REJECTED"
)

// Approval is one pending decision record per eligible manager, created when
// a requisition is submitted. SequenceOrder is 1-based and unique within the
// requisition.
type Approval struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequisitionID uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_requisition_sequence" json:"requisition_id"`
	Requisition   Requisition `gorm:"foreignKey:RequisitionID" json:"-"`
	ApproverID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"approver_id"`
	Approver      *User       `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	SequenceOrder int         `gorm:"not null;uniqueIndex:idx_requisition_sequence" json:"sequence_order"`
	Status        string      `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Comment       string      `gorm:"type:text" json:"comment"`
	ActionAt      *time.Time  `json:"action_at"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}
