package repository

import (
	"context"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RepairRepository interface {
	Create(ctx context.Context, rep *model.Repair) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Repair, error)
	List(ctx context.Context, filter dto.RepairFilter) ([]model.Repair, int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	CreateStatusLogTx(tx *gorm.DB, l *model.RepairStatusLog) error
	ListStatusLogs(ctx context.Context, repairID uuid.UUID) ([]model.RepairStatusLog, error)
	DB() *gorm.DB
}

type repairRepo struct{ db *gorm.DB }

func NewRepairRepository(db *gorm.DB) RepairRepository { return &repairRepo{db: db} }

func (r *repairRepo) DB() *gorm.DB { return r.db }

func (r *repairRepo) Create(ctx context.Context, rep *model.Repair) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *repairRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Repair, error) {
	var rep model.Repair
	err := r.db.WithContext(ctx).First(&rep, id).Error
	return &rep, err
}

func (r *repairRepo) List(ctx context.Context, filter dto.RepairFilter) ([]model.Repair, int64, error) {
	var repairs []model.Repair
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Repair{})
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&repairs).Error
	return repairs, total, err
}

func (r *repairRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Repair{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repairRepo) CreateStatusLogTx(tx *gorm.DB, l *model.RepairStatusLog) error {
	return tx.Create(l).Error
}

func (r *repairRepo) ListStatusLogs(ctx context.Context, repairID uuid.UUID) ([]model.RepairStatusLog, error) {
	var logs []model.RepairStatusLog
	err := r.db.WithContext(ctx).Where("repair_id = ?", repairID).Order("created_at ASC").Find(&logs).Error
	return logs, err
}
