package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reqtrack/internal/model"
)

type ApprovalRepository interface {
	// CreateBatch inserts the whole approval chain in one statement.
	CreateBatch(ctx context.Context, approvals []model.Approval) error
	ListByRequisition(ctx context.Context, requisitionID uuid.UUID) ([]model.Approval, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) CreateBatch(ctx context.Context, approvals []model.Approval) error {
	if len(approvals) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&approvals).Error
}

func (r *approvalRepository) ListByRequisition(ctx context.Context, requisitionID uuid.UUID) ([]model.Approval, error) {
	var approvals []model.Approval
	err := GetDB(ctx, r.db).
		Preload("Approver").
		Where("requisition_id = ?", requisitionID).
		Order("sequence_order ASC").
		Find(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}
