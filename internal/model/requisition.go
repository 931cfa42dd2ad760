package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lifecycle status — top-level stage of a requisition.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusPaid      = "PAID"
	StatusCompleted = "COMPLETED"
)

// Approval status — the managers' aggregate decision state.
const (
	ApprovalPending  = "PENDING"
	ApprovalToReview = "TO_REVIEW"
	ApprovalHold     = "HOLD"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Payment status
const (
	PaymentNotDone = "NOT_DONE"
	PaymentPartial = "PARTIAL"
	PaymentDone    = "DONE"
)

// Dispatch status
const (
	DispatchNotDispatched = "NOT_DISPATCHED"
	DispatchDispatched    = "DISPATCHED"
	DispatchDelivered     = "DELIVERED"
)

// Priority
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

func ValidApprovalStatus(s string) bool {
	switch s {
	case ApprovalPending, ApprovalToReview, ApprovalHold, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentNotDone, PaymentPartial, PaymentDone:
		return true
	}
	return false
}

func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Requisition is the central aggregate: one procurement request moving through
// submission, approval, payment and dispatch. The four status fields are
// semi-independent axes; Validate ties them together.
type Requisition struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   Organization     `gorm:"foreignKey:OrganizationID" json:"-"`
	TypeID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"type_id"`
	Type           *RequisitionType `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	CreatedByID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy      *User            `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	RequestID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"request_id"` // e.g. ORB/25/P00001

	Status         string `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	ApprovalStatus string `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"approval_status"`
	PaymentStatus  string `gorm:"type:varchar(20);not null;default:'NOT_DONE';index" json:"payment_status"`
	DispatchStatus string `gorm:"type:varchar(20);not null;default:'NOT_DISPATCHED'" json:"dispatch_status"`
	Priority       string `gorm:"type:varchar(10);not null;default:'NORMAL'" json:"priority"`

	// Business fields
	Description         string          `gorm:"type:text" json:"description"`
	SiteAddress         string          `gorm:"type:varchar(255)" json:"site_address"`
	MaterialDescription string          `gorm:"type:text" json:"material_description"`
	Quantity            int             `json:"quantity"`
	Amount              decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	PODetails           string          `gorm:"type:varchar(255)" json:"po_details"`
	RequiredFor         string          `gorm:"type:varchar(255)" json:"required_for"`
	VendorName          string          `gorm:"type:varchar(255)" json:"vendor_name"`
	IndentNo            string          `gorm:"type:varchar(100)" json:"indent_no"`

	// Payment details
	PaymentUtrNo  string           `gorm:"type:varchar(100)" json:"payment_utr_no"`
	PaymentMode   string           `gorm:"type:varchar(50)" json:"payment_mode"`
	PaymentDate   *time.Time       `json:"payment_date"`
	PaymentAmount *decimal.Decimal `gorm:"type:numeric(14,2)" json:"payment_amount"`

	// Attachment URLs set via the attach-file operation
	PaymentPhotoURL         string `gorm:"type:varchar(512)" json:"payment_photo_url"`
	MaterialPhotoURL        string `gorm:"type:varchar(512)" json:"material_photo_url"`
	BillPhotoURL            string `gorm:"type:varchar(512)" json:"bill_photo_url"`
	VendorPaymentDetailsURL string `gorm:"type:varchar(512)" json:"vendor_payment_details_url"`

	// Workflow tracking
	ApprovalNotes    string `gorm:"type:text" json:"approval_notes"`
	MaterialReceived bool   `gorm:"not null;default:false" json:"material_received"`
	ReceiptNotes     string `gorm:"type:text" json:"receipt_notes"`

	ApprovedByID   *uuid.UUID `gorm:"type:uuid" json:"approved_by_id"`
	ApprovedBy     *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	PaidByID       *uuid.UUID `gorm:"type:uuid" json:"paid_by_id"`
	PaidBy         *User      `gorm:"foreignKey:PaidByID" json:"paid_by,omitempty"`
	DispatchedByID *uuid.UUID `gorm:"type:uuid" json:"dispatched_by_id"`
	DispatchedBy   *User      `gorm:"foreignKey:DispatchedByID" json:"dispatched_by,omitempty"`

	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	ApprovedAt     *time.Time `json:"approved_at"`
	PaidAt         *time.Time `json:"paid_at"`
	DispatchedAt   *time.Time `json:"dispatched_at"`
	ManagerTime    *time.Time `json:"manager_time"`
	AccountantTime *time.Time `json:"accountant_time"`

	Approvals   []Approval   `gorm:"foreignKey:RequisitionID;constraint:OnDelete:CASCADE" json:"approvals,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:RequisitionID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// Validate checks the cross-axis invariants binding the four status fields.
// Called before every persist in the workflow engine so no mutation can leave
// the aggregate in a contradictory state.
func (r *Requisition) Validate() error {
	switch r.Status {
	case StatusDraft:
		if r.ApprovalStatus != ApprovalPending {
			return fmt.Errorf("draft requisition cannot have approval status %s", r.ApprovalStatus)
		}
		if r.PaymentStatus != PaymentNotDone {
			return fmt.Errorf("draft requisition cannot have payment status %s", r.PaymentStatus)
		}
		if r.DispatchStatus != DispatchNotDispatched {
			return fmt.Errorf("draft requisition cannot have dispatch status %s", r.DispatchStatus)
		}
	case StatusApproved:
		if r.ApprovalStatus != ApprovalApproved {
			return fmt.Errorf("lifecycle APPROVED requires approval status APPROVED, got %s", r.ApprovalStatus)
		}
	case StatusRejected:
		if r.ApprovalStatus != ApprovalRejected {
			return fmt.Errorf("lifecycle REJECTED requires approval status REJECTED, got %s", r.ApprovalStatus)
		}
	case StatusPaid, StatusCompleted:
		if r.PaymentStatus != PaymentDone {
			return fmt.Errorf("lifecycle %s requires payment status DONE, got %s", r.Status, r.PaymentStatus)
		}
	case StatusSubmitted:
		// Any approval sub-status is reachable while SUBMITTED (including HOLD).
	default:
		return fmt.Errorf("unknown lifecycle status %s", r.Status)
	}

	if r.ApprovalStatus == ApprovalApproved && r.Status != StatusApproved &&
		r.Status != StatusPaid && r.Status != StatusCompleted {
		return fmt.Errorf("approval status APPROVED is inconsistent with lifecycle %s", r.Status)
	}
	if r.ApprovalStatus == ApprovalRejected && r.Status != StatusRejected {
		return fmt.Errorf("approval status REJECTED is inconsistent with lifecycle %s", r.Status)
	}
	return nil
}
