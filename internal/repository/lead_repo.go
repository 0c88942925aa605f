package repository

import (
	"context"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadRepository interface {
	Create(ctx context.Context, l *model.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	List(ctx context.Context, filter dto.LeadFilter) ([]model.Lead, int64, error)
	Update(ctx context.Context, l *model.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type leadRepo struct{ db *gorm.DB }

func NewLeadRepository(db *gorm.DB) LeadRepository { return &leadRepo{db: db} }

func (r *leadRepo) Create(ctx context.Context, l *model.Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *leadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	var l model.Lead
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *leadRepo) List(ctx context.Context, filter dto.LeadFilter) ([]model.Lead, int64, error) {
	var leads []model.Lead
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Lead{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&leads).Error
	return leads, total, err
}

func (r *leadRepo) Update(ctx context.Context, l *model.Lead) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *leadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Lead{}, id).Error
}
