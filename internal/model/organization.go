package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscription plan constants
const (
	PlanFree    = "FREE"
	PlanBasic   = "BASIC"
	PlanPremium = "PREMIUM"
)

// Organization is the tenant root. Every user and requisition belongs to
// exactly one organization, fixed at creation.
type Organization struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactEmail      string    `gorm:"type:varchar(255);not null" json:"contact_email"`
	ContactPhone      string    `gorm:"type:varchar(20)" json:"contact_phone"`
	Address           string    `gorm:"type:text" json:"address"`
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	SubscriptionPlan  string    `gorm:"type:varchar(20);not null;default:'FREE'" json:"subscription_plan"`
	RequisitionPrefix string    `gorm:"type:varchar(10)" json:"requisition_prefix"` // optional override for request-id prefixes
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Users        []User        `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	Requisitions []Requisition `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}
