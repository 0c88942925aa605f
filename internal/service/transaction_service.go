package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionService owns the write path for sales transactions: duplicate
// detection, the atomic insert + inventory flip, credits, and the stats
// recompute trigger. Manual creation and CSV import both go through Write
// so the duplicate semantics cannot drift apart.
type TransactionService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	CreateCredit(ctx context.Context, userID, originalID uuid.UUID, req dto.CreateCreditRequest) (*dto.TransactionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, []dto.StatusLogResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// CheckDuplicate is the shared duplicate detector: it returns the
	// existing sale for (client, item, same calendar day), or nil.
	CheckDuplicate(ctx context.Context, clientID, itemID uuid.UUID, day time.Time) (*model.SalesTransaction, error)
	// Write persists a validated transaction: advisory lock, duplicate
	// re-check (unless the row is confirmed), insert, inventory flip to
	// sold, then a stats recompute. Returns *DuplicateError on collision.
	Write(ctx context.Context, t *model.SalesTransaction) error
}

type transactionService struct {
	repo          repository.TransactionRepository
	clientRepo    repository.ClientRepository
	inventoryRepo repository.InventoryRepository
	stats         StatsService
	cache         SerialCache
}

func NewTransactionService(
	repo repository.TransactionRepository,
	clientRepo repository.ClientRepository,
	inventoryRepo repository.InventoryRepository,
	stats StatsService,
	cache SerialCache,
) TransactionService {
	return &transactionService{
		repo:          repo,
		clientRepo:    clientRepo,
		inventoryRepo: inventoryRepo,
		stats:         stats,
		cache:         cache,
	}
}

// invalidateSerial evicts the cached serial entry after a status flip so
// serial lookups never serve a stale status.
func (s *transactionService) invalidateSerial(ctx context.Context, itemID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if it, err := s.inventoryRepo.FindByID(ctx, itemID); err == nil {
		s.cache.Invalidate(ctx, it.SerialNumber)
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// saleDateFormats are accepted for manual requests and CSV rows alike.
var saleDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

// ParseSaleDate parses a sale date in any accepted format.
func ParseSaleDate(raw string) (time.Time, error) {
	for _, layout := range saleDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func (s *transactionService) CheckDuplicate(ctx context.Context, clientID, itemID uuid.UUID, day time.Time) (*model.SalesTransaction, error) {
	return s.repo.FindSameDay(ctx, nil, clientID, itemID, day)
}

func (s *transactionService) Write(ctx context.Context, t *model.SalesTransaction) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if err := s.repo.AdvisoryLockTx(tx, t.ClientID, t.InventoryItemID); err != nil {
				return err
			}
		}

		// Re-check inside the lock so two concurrent imports cannot both pass.
		if !t.ConfirmedDuplicate {
			existing, err := s.repo.FindSameDay(ctx, tx, t.ClientID, t.InventoryItemID, t.SaleDate)
			if err != nil {
				return err
			}
			if existing != nil {
				return &DuplicateError{Existing: existing}
			}
		}

		if err := s.repo.Create(ctx, tx, t); err != nil {
			return err
		}
		if t.Type == model.TransactionSale {
			if err := s.inventoryRepo.UpdateStatusTx(tx, t.InventoryItemID, model.StatusSold); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The backstop unique index caught an insert the in-lock re-check
		// missed. Surface it as an ordinary duplicate so the caller goes
		// through a fresh duplicate-check cycle instead of seeing a raw
		// storage error.
		existing, findErr := s.repo.FindSameDay(ctx, nil, t.ClientID, t.InventoryItemID, t.SaleDate)
		if findErr == nil && existing != nil {
			return &DuplicateError{Existing: existing}
		}
		return err
	}
	if err != nil {
		return err
	}

	if t.Type == model.TransactionSale {
		s.invalidateSerial(ctx, t.InventoryItemID)
	}

	// The recompute runs outside the write transaction: it is idempotent and
	// self-correcting on retry, so it does not need to share the commit.
	return s.stats.Recompute(ctx, t.ClientID)
}

// ── Manual creation ──────────────────────────────────────────────────────────

func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client_id: %w", err)
	}
	itemID, err := uuid.Parse(req.InventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid inventory_item_id: %w", err)
	}

	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, fmt.Errorf("client: %w", ErrNotFound)
	}
	if _, err := s.inventoryRepo.FindByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("inventory item: %w", ErrNotFound)
	}

	saleDate, err := ParseSaleDate(req.SaleDate)
	if err != nil {
		return nil, err
	}
	if req.SellingPrice.IsNegative() {
		return nil, errors.New("selling price must be non-negative")
	}

	// Only sales enter here. Credits reference an original sale and carry
	// their own preconditions, so they go through CreateCredit.
	if req.Type != "" && req.Type != model.TransactionSale {
		return nil, fmt.Errorf("type %q is not created directly; credit the original sale instead", req.Type)
	}

	t := &model.SalesTransaction{
		ClientID:           clientID,
		InventoryItemID:    itemID,
		Type:               model.TransactionSale,
		SaleDate:           saleDate,
		SellingPrice:       req.SellingPrice,
		RetailPrice:        req.RetailPrice,
		ProfitMargin:       req.ProfitMargin,
		Source:             model.SourceManual,
		ConfirmedDuplicate: req.ConfirmedDuplicate,
		Notes:              req.Notes,
		ProcessedBy:        userID,
	}
	if err := s.Write(ctx, t); err != nil {
		return nil, err
	}
	return transactionToResponse(t), nil
}

// ── Credit / return ──────────────────────────────────────────────────────────

func (s *transactionService) CreateCredit(ctx context.Context, userID, originalID uuid.UUID, req dto.CreateCreditRequest) (*dto.TransactionResponse, error) {
	original, err := s.repo.FindByID(ctx, originalID)
	if err != nil {
		return nil, fmt.Errorf("original transaction: %w", ErrNotFound)
	}
	if original.Type != model.TransactionSale {
		return nil, ErrNotASale
	}
	credited, err := s.repo.HasCredit(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if credited {
		return nil, ErrAlreadyCredited
	}

	price := original.SellingPrice
	if req.SellingPrice != nil {
		price = *req.SellingPrice
	}

	credit := &model.SalesTransaction{
		ClientID:        original.ClientID,
		InventoryItemID: original.InventoryItemID,
		Type:            model.TransactionCredit,
		SaleDate:        time.Now(),
		SellingPrice:    price,
		OriginalID:      &originalID,
		Source:          model.SourceManual,
		Notes:           req.Notes,
		ProcessedBy:     userID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, credit); err != nil {
			return err
		}
		// Opposite direction from a sale: the item goes back on the shelf.
		if err := s.inventoryRepo.UpdateStatusTx(tx, original.InventoryItemID, model.StatusInStock); err != nil {
			return err
		}
		return s.repo.CreateStatusLogTx(tx, &model.TransactionStatusLog{
			TransactionID: originalID,
			FromStatus:    "sold",
			ToStatus:      "credited",
			Reason:        req.Reason,
			ChangedBy:     userID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateSerial(ctx, original.InventoryItemID)

	if err := s.stats.Recompute(ctx, original.ClientID); err != nil {
		return nil, err
	}
	return transactionToResponse(credit), nil
}

// ── Read / repair operations ─────────────────────────────────────────────────

func (s *transactionService) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, []dto.StatusLogResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	logs, err := s.repo.ListStatusLogs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	logResp := make([]dto.StatusLogResponse, 0, len(logs))
	for _, l := range logs {
		logResp = append(logResp, dto.StatusLogResponse{
			ID:         l.ID.String(),
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			Reason:     l.Reason,
			ChangedBy:  l.ChangedBy.String(),
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}
	return transactionToResponse(t), logResp, nil
}

func (s *transactionService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	txs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, *transactionToResponse(&txs[i]))
	}
	return &dto.TransactionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Update covers recordkeeping repairs only: prices and notes. Type, client,
// item, and date are immutable — fixing those means credit + re-enter.
func (s *transactionService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, errors.New("selling price must be non-negative")
		}
		t.SellingPrice = *req.SellingPrice
	}
	if req.RetailPrice != nil {
		t.RetailPrice = req.RetailPrice
	}
	if req.ProfitMargin != nil {
		t.ProfitMargin = req.ProfitMargin
	}
	if req.Notes != nil {
		t.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	// Price repairs change the client's spend.
	if err := s.stats.Recompute(ctx, t.ClientID); err != nil {
		return nil, err
	}
	return transactionToResponse(t), nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	// An uncredited sale holds its item in "sold"; deleting the record
	// releases the item.
	releaseItem := false
	if t.Type == model.TransactionSale {
		credited, err := s.repo.HasCredit(ctx, id)
		if err != nil {
			return err
		}
		releaseItem = !credited
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return err
		}
		if releaseItem {
			return s.inventoryRepo.UpdateStatusTx(tx, t.InventoryItemID, model.StatusInStock)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}
	if releaseItem {
		s.invalidateSerial(ctx, t.InventoryItemID)
	}
	return s.stats.Recompute(ctx, t.ClientID)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func transactionToResponse(t *model.SalesTransaction) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:              t.ID.String(),
		ClientID:        t.ClientID.String(),
		InventoryItemID: t.InventoryItemID.String(),
		Type:            t.Type,
		SaleDate:        t.SaleDate.Format("2006-01-02"),
		SellingPrice:    t.SellingPrice,
		RetailPrice:     t.RetailPrice,
		ProfitMargin:    t.ProfitMargin,
		Source:          t.Source,
		Notes:           t.Notes,
		ProcessedBy:     t.ProcessedBy.String(),
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
	if t.OriginalID != nil {
		id := t.OriginalID.String()
		resp.OriginalID = &id
	}
	if t.ImportBatchID != nil {
		id := t.ImportBatchID.String()
		resp.ImportBatchID = &id
	}
	if t.Client != nil {
		resp.ClientName = t.Client.FirstName + " " + t.Client.LastName
	}
	if t.InventoryItem != nil {
		resp.SerialNumber = t.InventoryItem.SerialNumber
	}
	return resp
}
