package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRequisition  = "CREATE_REQUISITION"
	ActionUpdateRequisition  = "UPDATE_REQUISITION"
	ActionSubmitRequisition  = "SUBMIT_REQUISITION"
	ActionApprovalDecision   = "APPROVAL_DECISION"
	ActionUpdatePayment      = "UPDATE_PAYMENT"
	ActionMaterialReceipt    = "MATERIAL_RECEIPT"
	ActionDispatchGoods      = "DISPATCH_GOODS"
	ActionAttachFile         = "ATTACH_FILE"
	ActionDeleteRequisition  = "DELETE_REQUISITION"
	ActionCreateUser         = "CREATE_USER"
	ActionUpdateUser         = "UPDATE_USER"
	ActionRegisterOrg        = "REGISTER_ORGANIZATION"
	ActionCreateReqType      = "CREATE_REQUISITION_TYPE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index" json:"organization_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User           *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action         string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID       string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName     string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable reference
	Details        string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}
