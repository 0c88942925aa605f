package service

import (
	"context"
	"fmt"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// repairOrder gives each status its position in the linear lifecycle.
var repairOrder = map[string]int{
	model.RepairReceived:   0,
	model.RepairInProgress: 1,
	model.RepairReady:      2,
	model.RepairDelivered:  3,
}

type RepairService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateRepairRequest) (*dto.RepairResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.RepairResponse, []dto.StatusLogResponse, error)
	List(ctx context.Context, filter dto.RepairFilter) (*dto.RepairListResponse, error)
	// AdvanceStatus moves the repair forward. Transitions only go forward in
	// the lifecycle and each one appends to the status log atomically.
	AdvanceStatus(ctx context.Context, userID, id uuid.UUID, req dto.RepairStatusRequest) (*dto.RepairResponse, error)
}

type repairService struct {
	repo       repository.RepairRepository
	clientRepo repository.ClientRepository
}

func NewRepairService(repo repository.RepairRepository, clientRepo repository.ClientRepository) RepairService {
	return &repairService{repo: repo, clientRepo: clientRepo}
}

func (s *repairService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateRepairRequest) (*dto.RepairResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client_id: %w", err)
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, fmt.Errorf("client: %w", ErrNotFound)
	}

	rep := &model.Repair{
		ClientID:     clientID,
		Description:  req.Description,
		SerialNumber: req.SerialNumber,
		QuotedPrice:  req.QuotedPrice,
		Status:       model.RepairReceived,
		CreatedBy:    userID,
	}
	if req.PromisedDate != nil {
		d, err := time.Parse("2006-01-02", *req.PromisedDate)
		if err != nil {
			return nil, err
		}
		rep.PromisedDate = &d
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	return repairToResponse(rep), nil
}

func (s *repairService) Get(ctx context.Context, id uuid.UUID) (*dto.RepairResponse, []dto.StatusLogResponse, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	logs, err := s.repo.ListStatusLogs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	logResp := make([]dto.StatusLogResponse, 0, len(logs))
	for _, l := range logs {
		entry := dto.StatusLogResponse{
			ID:         l.ID.String(),
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			ChangedBy:  l.ChangedBy.String(),
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		}
		if l.Note != nil {
			entry.Reason = *l.Note
		}
		logResp = append(logResp, entry)
	}
	return repairToResponse(rep), logResp, nil
}

func (s *repairService) List(ctx context.Context, filter dto.RepairFilter) (*dto.RepairListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	repairs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RepairResponse, 0, len(repairs))
	for i := range repairs {
		items = append(items, *repairToResponse(&repairs[i]))
	}
	return &dto.RepairListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *repairService) AdvanceStatus(ctx context.Context, userID, id uuid.UUID, req dto.RepairStatusRequest) (*dto.RepairResponse, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if repairOrder[req.Status] <= repairOrder[rep.Status] {
		return nil, ErrBadTransition
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(tx, id, req.Status); err != nil {
			return err
		}
		return s.repo.CreateStatusLogTx(tx, &model.RepairStatusLog{
			RepairID:   id,
			FromStatus: rep.Status,
			ToStatus:   req.Status,
			Note:       req.Note,
			ChangedBy:  userID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	rep.Status = req.Status
	return repairToResponse(rep), nil
}

func repairToResponse(rep *model.Repair) *dto.RepairResponse {
	resp := &dto.RepairResponse{
		ID:           rep.ID.String(),
		ClientID:     rep.ClientID.String(),
		Description:  rep.Description,
		SerialNumber: rep.SerialNumber,
		QuotedPrice:  rep.QuotedPrice,
		Status:       rep.Status,
		CreatedAt:    rep.CreatedAt.Format(time.RFC3339),
	}
	if rep.PromisedDate != nil {
		d := rep.PromisedDate.Format("2006-01-02")
		resp.PromisedDate = &d
	}
	return resp
}
