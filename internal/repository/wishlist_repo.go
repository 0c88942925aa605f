package repository

import (
	"context"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	Create(ctx context.Context, w *model.WishlistEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WishlistEntry, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.WishlistEntry, error)
	// FindOpenByBrand returns open wishes whose brand matches, for the
	// intake matcher. Model and price filtering happens in the service.
	FindOpenByBrand(ctx context.Context, brand string) ([]model.WishlistEntry, error)
	Update(ctx context.Context, w *model.WishlistEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type wishlistRepo struct{ db *gorm.DB }

func NewWishlistRepository(db *gorm.DB) WishlistRepository { return &wishlistRepo{db: db} }

func (r *wishlistRepo) Create(ctx context.Context, w *model.WishlistEntry) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *wishlistRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.WishlistEntry, error) {
	var w model.WishlistEntry
	err := r.db.WithContext(ctx).First(&w, id).Error
	return &w, err
}

func (r *wishlistRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.WishlistEntry, error) {
	var wishes []model.WishlistEntry
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC").Find(&wishes).Error
	return wishes, err
}

func (r *wishlistRepo) FindOpenByBrand(ctx context.Context, brand string) ([]model.WishlistEntry, error) {
	var wishes []model.WishlistEntry
	err := r.db.WithContext(ctx).Preload("Client").
		Where("status = 'open' AND brand ILIKE ?", brand).
		Find(&wishes).Error
	return wishes, err
}

func (r *wishlistRepo) Update(ctx context.Context, w *model.WishlistEntry) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *wishlistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.WishlistEntry{}, id).Error
}
