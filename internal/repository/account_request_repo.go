package repository

import (
	"context"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRequestRepository interface {
	Create(ctx context.Context, req *model.AccountRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AccountRequest, error)
	FindByEmail(ctx context.Context, email string) (*model.AccountRequest, error)
	ListPending(ctx context.Context) ([]model.AccountRequest, error)
	Update(ctx context.Context, req *model.AccountRequest) error
}

type accountRequestRepo struct{ db *gorm.DB }

func NewAccountRequestRepository(db *gorm.DB) AccountRequestRepository {
	return &accountRequestRepo{db: db}
}

func (r *accountRequestRepo) Create(ctx context.Context, req *model.AccountRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *accountRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AccountRequest, error) {
	var req model.AccountRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	return &req, err
}

func (r *accountRequestRepo) FindByEmail(ctx context.Context, email string) (*model.AccountRequest, error) {
	var req model.AccountRequest
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&req).Error
	return &req, err
}

func (r *accountRequestRepo) ListPending(ctx context.Context) ([]model.AccountRequest, error) {
	var reqs []model.AccountRequest
	err := r.db.WithContext(ctx).Where("status = 'pending'").Order("created_at ASC").Find(&reqs).Error
	return reqs, err
}

func (r *accountRequestRepo) Update(ctx context.Context, req *model.AccountRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
