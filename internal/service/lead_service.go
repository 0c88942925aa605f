package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
)

type LeadService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateLeadRequest) (*dto.LeadResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.LeadResponse, error)
	List(ctx context.Context, filter dto.LeadFilter) (*dto.LeadListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*dto.LeadResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type leadService struct {
	repo       repository.LeadRepository
	clientRepo repository.ClientRepository
}

func NewLeadService(repo repository.LeadRepository, clientRepo repository.ClientRepository) LeadService {
	return &leadService{repo: repo, clientRepo: clientRepo}
}

func (s *leadService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	l := &model.Lead{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		Status:     "new",
		Notes:      req.Notes,
		AssignedTo: &userID,
	}
	if req.ItemOfInterestID != nil {
		itemID, err := uuid.Parse(*req.ItemOfInterestID)
		if err != nil {
			return nil, fmt.Errorf("invalid item_of_interest_id: %w", err)
		}
		l.ItemOfInterestID = &itemID
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return leadToResponse(l), nil
}

func (s *leadService) Get(ctx context.Context, id uuid.UUID) (*dto.LeadResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return leadToResponse(l), nil
}

func (s *leadService) List(ctx context.Context, filter dto.LeadFilter) (*dto.LeadListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, *leadToResponse(&leads[i]))
	}
	return &dto.LeadListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *leadService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Email != nil {
		l.Email = req.Email
	}
	if req.Phone != nil {
		l.Phone = req.Phone
	}
	if req.Status != nil {
		l.Status = *req.Status
	}
	if req.Notes != nil {
		l.Notes = req.Notes
	}
	if req.ClientID != nil {
		// Conversion: the lead becomes a client and the pipeline entry closes.
		clientID, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client_id: %w", err)
		}
		if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
			return nil, fmt.Errorf("client: %w", ErrNotFound)
		}
		l.ClientID = &clientID
		l.Status = "closed"
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return leadToResponse(l), nil
}

func (s *leadService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func leadToResponse(l *model.Lead) *dto.LeadResponse {
	resp := &dto.LeadResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Source:    l.Source,
		Status:    l.Status,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.ClientID != nil {
		id := l.ClientID.String()
		resp.ClientID = &id
	}
	if l.ItemOfInterestID != nil {
		id := l.ItemOfInterestID.String()
		resp.ItemOfInterestID = &id
	}
	return resp
}
