package model

import (
	"time"

	"github.com/google/uuid"
)

// Sync operations
const (
	SyncCreate = "CREATE"
	SyncUpdate = "UPDATE"
	SyncDelete = "DELETE"
)

// Sync entity types
const (
	SyncEntityRequisition = "REQUISITION"
	SyncEntityApproval    = "APPROVAL"
)

// SyncLog records entity mutations so offline clients can replay changes they
// missed while disconnected.
type SyncLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	EntityType string    `gorm:"type:varchar(30);not null" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null" json:"entity_id"`
	Operation  string    `gorm:"type:varchar(10);not null" json:"operation"`
	Payload    string    `gorm:"type:text" json:"payload"`
	Synced     bool      `gorm:"not null;default:false;index" json:"synced"`
	SyncAt     *time.Time `json:"sync_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
