package repository

import (
	"context"

	"gorm.io/gorm"

	"reqtrack/internal/model"
)

// AuditRepository persists audit rows and sync-log rows. Both are written in
// the same transaction as the mutation they describe.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	CreateSyncLog(ctx context.Context, entry *model.SyncLog) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) CreateSyncLog(ctx context.Context, entry *model.SyncLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}
