package service

import (
	"context"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
)

type ClientService interface {
	Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error)
	List(ctx context.Context, filter dto.ClientFilter) (*dto.ClientListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	// Deactivate soft-deletes: the client disappears from default listings
	// but the transaction history stays intact.
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	// Transactions returns the client's full purchase history, oldest first.
	Transactions(ctx context.Context, id uuid.UUID) ([]dto.TransactionResponse, error)
}

type clientService struct {
	repo   repository.ClientRepository
	txRepo repository.TransactionRepository
}

func NewClientService(repo repository.ClientRepository, txRepo repository.TransactionRepository) ClientService {
	return &clientService{repo: repo, txRepo: txRepo}
}

func (s *clientService) Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	c := &model.Client{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		VIPTier:   model.TierRegular,
		Active:    true,
	}
	if req.Birthday != nil {
		b, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, err
		}
		c.Birthday = &b
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return clientToResponse(c), nil
}

func (s *clientService) List(ctx context.Context, filter dto.ClientFilter) (*dto.ClientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, *clientToResponse(&clients[i]))
	}
	return &dto.ClientListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Email != nil && *req.Email != c.Email {
		if existing, err := s.repo.FindByEmail(ctx, *req.Email); err == nil && existing != nil {
			return nil, ErrEmailTaken
		}
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Birthday != nil {
		b, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, err
		}
		c.Birthday = &b
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *clientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *clientService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Reactivate(ctx, id)
}

func (s *clientService) Transactions(ctx context.Context, id uuid.UUID) ([]dto.TransactionResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	txs, err := s.txRepo.ListByClient(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		resp = append(resp, *transactionToResponse(&txs[i]))
	}
	return resp, nil
}

func clientToResponse(c *model.Client) *dto.ClientResponse {
	resp := &dto.ClientResponse{
		ID:            c.ID.String(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Phone:         c.Phone,
		Notes:         c.Notes,
		TotalSpend:    c.TotalSpend,
		PurchaseCount: c.PurchaseCount,
		VIPTier:       c.VIPTier,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
	if c.Birthday != nil {
		b := c.Birthday.Format("2006-01-02")
		resp.Birthday = &b
	}
	if c.LastPurchase != nil {
		lp := c.LastPurchase.Format("2006-01-02")
		resp.LastPurchase = &lp
	}
	return resp
}
