package model

import (
	"time"

	"github.com/google/uuid"
)

// User role constants. Role decides which workflow operations are permitted;
// the mapping lives in the authz package.
const (
	RoleAdmin      = "ADMIN"
	RolePurchaser  = "PURCHASER"
	RoleManager    = "MANAGER"
	RoleAccountant = "ACCOUNTANT"
)

// ValidRole reports whether role is one of the four workflow roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePurchaser, RoleManager, RoleAccountant:
		return true
	}
	return false
}

// User represents an organization member.
type User struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Email          string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string       `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string       `gorm:"type:varchar(255)" json:"full_name"`
	Role           string       `gorm:"type:varchar(20);not null" json:"role"`
	Department     string       `gorm:"type:varchar(100)" json:"department"`
	Designation    string       `gorm:"type:varchar(100)" json:"designation"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	LastLogin      *time.Time   `json:"last_login"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
