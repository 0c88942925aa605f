package service

import (
	"context"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WishlistMatcher is the part of the wishlist service the intake path needs.
type WishlistMatcher interface {
	MatchItem(ctx context.Context, it *model.InventoryItem) error
}

type InventoryService interface {
	// Create is the intake path: it registers the item and runs the wishlist
	// matcher against it.
	Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	GetBySerial(ctx context.Context, serial string) (*dto.ItemResponse, error)
	List(ctx context.Context, filter dto.InventoryFilter) (*dto.ItemListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	// AdjustStatus handles the manual flips (reserve, shelf, write off). It
	// refuses to touch a sold item: that status belongs to the sale.
	AdjustStatus(ctx context.Context, userID, id uuid.UUID, req dto.AdjustStatusRequest) (*dto.ItemResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type inventoryService struct {
	repo    repository.InventoryRepository
	matcher WishlistMatcher
	cache   SerialCache
}

func NewInventoryService(repo repository.InventoryRepository, matcher WishlistMatcher, cache SerialCache) InventoryService {
	return &inventoryService{repo: repo, matcher: matcher, cache: cache}
}

func (s *inventoryService) Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if existing, err := s.repo.FindBySerial(ctx, req.SerialNumber); err == nil && existing != nil {
		return nil, ErrSerialTaken
	}

	it := &model.InventoryItem{
		SerialNumber: req.SerialNumber,
		Brand:        req.Brand,
		Model:        req.Model,
		Description:  req.Description,
		Condition:    req.Condition,
		CostPrice:    req.CostPrice,
		RetailPrice:  req.RetailPrice,
		Status:       model.StatusInStock,
		Active:       true,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	// Matching is best effort: a matcher failure must not fail the intake.
	if s.matcher != nil {
		if err := s.matcher.MatchItem(ctx, it); err != nil {
			log.Error().Err(err).Str("serial", it.SerialNumber).Msg("wishlist match failed")
		}
	}
	return itemToResponse(it), nil
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return itemToResponse(it), nil
}

func (s *inventoryService) GetBySerial(ctx context.Context, serial string) (*dto.ItemResponse, error) {
	if s.cache != nil {
		if it, ok := s.cache.Get(ctx, serial); ok {
			return itemToResponse(it), nil
		}
	}
	it, err := s.repo.FindBySerial(ctx, serial)
	if err != nil {
		return nil, ErrNotFound
	}
	if s.cache != nil {
		s.cache.Set(ctx, it)
	}
	return itemToResponse(it), nil
}

func (s *inventoryService) List(ctx context.Context, filter dto.InventoryFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: resp, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Brand != nil {
		it.Brand = *req.Brand
	}
	if req.Model != nil {
		it.Model = *req.Model
	}
	if req.Description != nil {
		it.Description = req.Description
	}
	if req.Condition != nil {
		it.Condition = req.Condition
	}
	if req.CostPrice != nil {
		it.CostPrice = *req.CostPrice
	}
	if req.RetailPrice != nil {
		it.RetailPrice = *req.RetailPrice
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	s.invalidate(ctx, it.SerialNumber)
	return itemToResponse(it), nil
}

func (s *inventoryService) AdjustStatus(ctx context.Context, userID, id uuid.UUID, req dto.AdjustStatusRequest) (*dto.ItemResponse, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if it.Status == model.StatusSold {
		return nil, ErrItemSold
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	log.Info().
		Str("item_id", id.String()).
		Str("from", it.Status).
		Str("to", req.Status).
		Str("reason", req.Reason).
		Str("changed_by", userID.String()).
		Msg("inventory status adjusted")
	it.Status = req.Status
	s.invalidate(ctx, it.SerialNumber)
	return itemToResponse(it), nil
}

func (s *inventoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if it.Status == model.StatusSold {
		return ErrItemSold
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, it.SerialNumber)
	return nil
}

func (s *inventoryService) invalidate(ctx context.Context, serial string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, serial)
	}
}

func itemToResponse(it *model.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           it.ID.String(),
		SerialNumber: it.SerialNumber,
		Brand:        it.Brand,
		Model:        it.Model,
		Description:  it.Description,
		Condition:    it.Condition,
		CostPrice:    it.CostPrice,
		RetailPrice:  it.RetailPrice,
		Status:       it.Status,
		Active:       it.Active,
		CreatedAt:    it.CreatedAt.Format(time.RFC3339),
	}
}
