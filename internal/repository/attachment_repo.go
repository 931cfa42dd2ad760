package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reqtrack/internal/model"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	ListByRequisition(ctx context.Context, requisitionID uuid.UUID) ([]model.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	return GetDB(ctx, r.db).Create(attachment).Error
}

func (r *attachmentRepository) ListByRequisition(ctx context.Context, requisitionID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := GetDB(ctx, r.db).
		Where("requisition_id = ?", requisitionID).
		Order("uploaded_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
