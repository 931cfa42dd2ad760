package model

import (
	"time"

	"github.com/google/uuid"
)

// Attachment categories
const (
	AttachmentItem    = "ITEM"
	AttachmentBill    = "BILL"
	AttachmentPayment = "PAYMENT"
)

func ValidAttachmentCategory(c string) bool {
	switch c {
	case AttachmentItem, AttachmentBill, AttachmentPayment:
		return true
	}
	return false
}

// Attachment stores file metadata for a requisition upload. Rows are owned by
// the requisition and removed with it.
type Attachment struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequisitionID uuid.UUID   `gorm:"type:uuid;not null;index" json:"requisition_id"`
	Requisition   Requisition `gorm:"foreignKey:RequisitionID" json:"-"`
	FileName      string      `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL       string      `gorm:"type:varchar(512);not null" json:"file_url"`
	FileSize      int64       `json:"file_size"`
	Category      string      `gorm:"type:varchar(20);not null" json:"category"`
	UploadedByID  *uuid.UUID  `gorm:"type:uuid" json:"uploaded_by_id"`
	UploadedBy    *User       `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	UploadedAt    time.Time   `gorm:"autoCreateTime" json:"uploaded_at"`
}
