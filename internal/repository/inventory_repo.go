package repository

import (
	"context"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, it *model.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindBySerial(ctx context.Context, serial string) (*model.InventoryItem, error)
	List(ctx context.Context, filter dto.InventoryFilter) ([]model.InventoryItem, int64, error)
	Update(ctx context.Context, it *model.InventoryItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// UpdateStatusTx is used inside transactions — callers must pass the tx
	// instance so the status flip commits or rolls back with the sale.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, it *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := r.db.WithContext(ctx).First(&it, id).Error
	return &it, err
}

func (r *inventoryRepo) FindBySerial(ctx context.Context, serial string) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := r.db.WithContext(ctx).Where("serial_number = ? AND active = true", serial).First(&it).Error
	return &it, err
}

func (r *inventoryRepo) List(ctx context.Context, filter dto.InventoryFilter) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.InventoryItem{})

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Serial != "" {
		q = q.Where("serial_number = ?", filter.Serial)
	}
	if filter.Brand != "" {
		q = q.Where("brand ILIKE ?", "%"+filter.Brand+"%")
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("brand ASC, model ASC").Offset(offset).Limit(filter.Limit).Find(&items).Error
	return items, total, err
}

func (r *inventoryRepo) Update(ctx context.Context, it *model.InventoryItem) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *inventoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.InventoryItem{}).Where("id = ?", id).Update("active", false).Error
}

func (r *inventoryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.InventoryItem{}).Where("id = ?", id).Update("status", status).Error
}

func (r *inventoryRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.InventoryItem{}).Where("id = ?", id).Update("status", status).Error
}
