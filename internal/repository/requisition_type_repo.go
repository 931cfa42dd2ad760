package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reqtrack/internal/model"
)

type RequisitionTypeRepository interface {
	Create(ctx context.Context, t *model.RequisitionType) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RequisitionType, error)
	List(ctx context.Context) ([]model.RequisitionType, error)
}

type requisitionTypeRepository struct {
	db *gorm.DB
}

func NewRequisitionTypeRepository(db *gorm.DB) RequisitionTypeRepository {
	return &requisitionTypeRepository{db: db}
}

func (r *requisitionTypeRepository) Create(ctx context.Context, t *model.RequisitionType) error {
	return GetDB(ctx, r.db).Create(t).Error
}

func (r *requisitionTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RequisitionType, error) {
	var t model.RequisitionType
	if err := GetDB(ctx, r.db).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *requisitionTypeRepository) List(ctx context.Context) ([]model.RequisitionType, error) {
	var types []model.RequisitionType
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
