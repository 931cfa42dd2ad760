package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reqtrack/internal/model"
)

// RequisitionRepository defines data access for the Requisition aggregate.
// Lookups by id are always organization-scoped: a cross-tenant id behaves
// exactly like a missing row.
type RequisitionRepository interface {
	Create(ctx context.Context, req *model.Requisition) error
	GetByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*model.Requisition, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]model.Requisition, int64, error)
	ListByType(ctx context.Context, orgID, typeID uuid.UUID) ([]model.Requisition, error)
	Update(ctx context.Context, req *model.Requisition) error
	Delete(ctx context.Context, req *model.Requisition) error
	CountByTypeAndApprovalStatus(ctx context.Context, orgID, typeID uuid.UUID, status string) (int64, error)
	CountByTypeAndPaymentStatus(ctx context.Context, orgID, typeID uuid.UUID, status string) (int64, error)
	CountByType(ctx context.Context, orgID, typeID uuid.UUID) (int64, error)
}

type requisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) RequisitionRepository {
	return &requisitionRepository{db: db}
}

func (r *requisitionRepository) Create(ctx context.Context, req *model.Requisition) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requisitionRepository) GetByIDForOrg(ctx context.Context, id, orgID uuid.UUID) (*model.Requisition, error) {
	var req model.Requisition
	err := GetDB(ctx, r.db).
		Preload("Type").
		Preload("CreatedBy").
		Preload("ApprovedBy").
		Preload("PaidBy").
		Preload("DispatchedBy").
		First(&req, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requisitionRepository) ListByOrg(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]model.Requisition, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.Requisition{}).Where("organization_id = ?", orgID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []model.Requisition
	err := db.
		Preload("Type").
		Preload("CreatedBy").
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reqs).Error
	if err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (r *requisitionRepository) ListByType(ctx context.Context, orgID, typeID uuid.UUID) ([]model.Requisition, error) {
	var reqs []model.Requisition
	err := GetDB(ctx, r.db).
		Preload("CreatedBy").
		Where("organization_id = ? AND type_id = ?", orgID, typeID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requisitionRepository) Update(ctx context.Context, req *model.Requisition) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *requisitionRepository) Delete(ctx context.Context, req *model.Requisition) error {
	// Approvals and attachments go with it via FK cascade
	return GetDB(ctx, r.db).Delete(req).Error
}

func (r *requisitionRepository) CountByTypeAndApprovalStatus(ctx context.Context, orgID, typeID uuid.UUID, status string) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Requisition{}).
		Where("organization_id = ? AND type_id = ? AND approval_status = ?", orgID, typeID, status).
		Count(&n).Error
	return n, err
}

func (r *requisitionRepository) CountByTypeAndPaymentStatus(ctx context.Context, orgID, typeID uuid.UUID, status string) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Requisition{}).
		Where("organization_id = ? AND type_id = ? AND payment_status = ?", orgID, typeID, status).
		Count(&n).Error
	return n, err
}

func (r *requisitionRepository) CountByType(ctx context.Context, orgID, typeID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Requisition{}).
		Where("organization_id = ? AND type_id = ?", orgID, typeID).
		Count(&n).Error
	return n, err
}
