package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type WishlistService interface {
	Create(ctx context.Context, req dto.CreateWishRequest) (*dto.WishResponse, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.WishResponse, error)
	Close(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// MatchItem runs the intake matcher: every open wish that fits the new
	// item (brand, optional model substring, optional price ceiling) flips to
	// matched and the sales staff gets notified.
	MatchItem(ctx context.Context, it *model.InventoryItem) error
}

type wishlistService struct {
	repo       repository.WishlistRepository
	clientRepo repository.ClientRepository
	notifier   NotificationService
}

func NewWishlistService(repo repository.WishlistRepository, clientRepo repository.ClientRepository, notifier NotificationService) WishlistService {
	return &wishlistService{repo: repo, clientRepo: clientRepo, notifier: notifier}
}

func (s *wishlistService) Create(ctx context.Context, req dto.CreateWishRequest) (*dto.WishResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client_id: %w", err)
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, fmt.Errorf("client: %w", ErrNotFound)
	}

	w := &model.WishlistEntry{
		ClientID: clientID,
		Brand:    req.Brand,
		Model:    req.Model,
		MaxPrice: req.MaxPrice,
		Notes:    req.Notes,
		Status:   "open",
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return wishToResponse(w), nil
}

func (s *wishlistService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]dto.WishResponse, error) {
	wishes, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.WishResponse, 0, len(wishes))
	for i := range wishes {
		resp = append(resp, *wishToResponse(&wishes[i]))
	}
	return resp, nil
}

func (s *wishlistService) Close(ctx context.Context, id uuid.UUID) error {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	w.Status = "closed"
	return s.repo.Update(ctx, w)
}

func (s *wishlistService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *wishlistService) MatchItem(ctx context.Context, it *model.InventoryItem) error {
	wishes, err := s.repo.FindOpenByBrand(ctx, it.Brand)
	if err != nil {
		return err
	}

	for i := range wishes {
		w := &wishes[i]
		if w.Model != nil && !strings.Contains(strings.ToLower(it.Model), strings.ToLower(*w.Model)) {
			continue
		}
		if w.MaxPrice != nil && it.RetailPrice.GreaterThan(*w.MaxPrice) {
			continue
		}

		w.Status = "matched"
		w.MatchedItemID = &it.ID
		if err := s.repo.Update(ctx, w); err != nil {
			return err
		}
		log.Info().
			Str("wish_id", w.ID.String()).
			Str("item_id", it.ID.String()).
			Str("serial", it.SerialNumber).
			Msg("wishlist match")

		clientName := ""
		if w.Client != nil {
			clientName = w.Client.FirstName + " " + w.Client.LastName
		}
		title := fmt.Sprintf("Wishlist match: %s %s", it.Brand, it.Model)
		body := fmt.Sprintf("New stock %s (serial %s) matches the wishlist entry for %s.",
			it.Model, it.SerialNumber, clientName)
		if err := s.notifier.NotifyStaff(ctx, model.KindWishlistMatch, title, body, &w.ID,
			model.RoleSales, model.RoleManager); err != nil {
			return err
		}
	}
	return nil
}

func wishToResponse(w *model.WishlistEntry) *dto.WishResponse {
	resp := &dto.WishResponse{
		ID:        w.ID.String(),
		ClientID:  w.ClientID.String(),
		Brand:     w.Brand,
		Model:     w.Model,
		MaxPrice:  w.MaxPrice,
		Notes:     w.Notes,
		Status:    w.Status,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
	if w.MatchedItemID != nil {
		id := w.MatchedItemID.String()
		resp.MatchedItemID = &id
	}
	return resp
}
