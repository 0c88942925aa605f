package repository

import (
	"context"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	FindByEmail(ctx context.Context, email string) (*model.Client, error)
	List(ctx context.Context, filter dto.ClientFilter) ([]model.Client, int64, error)
	Update(ctx context.Context, c *model.Client) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// UpdateStats atomically writes all four aggregate columns. The stats
	// service is the only caller.
	UpdateStats(ctx context.Context, id uuid.UUID, spend decimal.Decimal, count int, last *time.Time, tier string) error

	// FindBirthdaysOn returns active clients whose birthday falls on the given
	// month/day and who have not been greeted in the given year yet.
	FindBirthdaysOn(ctx context.Context, month time.Month, day int, year int) ([]model.Client, error)
	MarkBirthdayGreeted(ctx context.Context, id uuid.UUID, at time.Time) error
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clientRepo) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?) AND active = true", email).First(&c).Error
	return &c, err
}

func (r *clientRepo) List(ctx context.Context, filter dto.ClientFilter) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Client{})

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}
	if filter.Tier != "" && filter.Tier != "all" {
		q = q.Where("vip_tier = ?", filter.Tier)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("last_name ASC, first_name ASC").Offset(offset).Limit(filter.Limit).Find(&clients).Error
	return clients, total, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Update("active", false).Error
}

func (r *clientRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Update("active", true).Error
}

func (r *clientRepo) UpdateStats(ctx context.Context, id uuid.UUID, spend decimal.Decimal, count int, last *time.Time, tier string) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_spend":    spend,
		"purchase_count": count,
		"last_purchase":  last,
		"vip_tier":       tier,
	}).Error
}

func (r *clientRepo) FindBirthdaysOn(ctx context.Context, month time.Month, day int, year int) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).
		Where("active = true AND birthday IS NOT NULL").
		Where("EXTRACT(MONTH FROM birthday) = ? AND EXTRACT(DAY FROM birthday) = ?", int(month), day).
		Where("last_birthday_greeting IS NULL OR EXTRACT(YEAR FROM last_birthday_greeting) < ?", year).
		Find(&clients).Error
	return clients, err
}

func (r *clientRepo) MarkBirthdayGreeted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id = ?", id).Update("last_birthday_greeting", at).Error
}
