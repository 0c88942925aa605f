package repository

import (
	"context"
	"errors"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository is the data access contract for sales transactions
// and their append-only status logs. Services depend on this interface, not
// on the concrete GORM implementation, enabling clean unit testing via stubs.
type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.SalesTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesTransaction, error)
	// FindSameDay returns the existing transaction for the same client, same
	// item, and a sale date within the same calendar day (midnight-to-midnight,
	// not a rolling 24h window), or nil when none exists. When tx is non-nil
	// the lookup runs inside that transaction so it sits behind the advisory
	// lock taken by the caller.
	FindSameDay(ctx context.Context, tx *gorm.DB, clientID, itemID uuid.UUID, day time.Time) (*model.SalesTransaction, error)
	// HasCredit reports whether a credit already references the given sale.
	HasCredit(ctx context.Context, originalID uuid.UUID) (bool, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.SalesTransaction, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.SalesTransaction, int64, error)
	Update(ctx context.Context, t *model.SalesTransaction) error
	// DeleteTx removes the transaction and its status logs inside the given
	// tx so the caller can bundle the inventory flip with the delete.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	CreateStatusLogTx(tx *gorm.DB, l *model.TransactionStatusLog) error
	ListStatusLogs(ctx context.Context, transactionID uuid.UUID) ([]model.TransactionStatusLog, error)

	// AdvisoryLockTx takes a transaction-scoped advisory lock keyed on
	// (client, item) so that duplicate check + insert cannot race with a
	// concurrent import touching the same pair. Released at commit/rollback.
	AdvisoryLockTx(tx *gorm.DB, clientID, itemID uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.SalesTransaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesTransaction, error) {
	var t model.SalesTransaction
	err := r.db.WithContext(ctx).Preload("Client").Preload("InventoryItem").First(&t, id).Error
	return &t, err
}

func (r *transactionRepo) FindSameDay(ctx context.Context, tx *gorm.DB, clientID, itemID uuid.UUID, day time.Time) (*model.SalesTransaction, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var t model.SalesTransaction
	err := db.WithContext(ctx).
		Where("client_id = ? AND inventory_item_id = ? AND type = ? AND DATE(sale_date) = DATE(?)",
			clientID, itemID, model.TransactionSale, day).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) HasCredit(ctx context.Context, originalID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SalesTransaction{}).
		Where("original_id = ? AND type = ?", originalID, model.TransactionCredit).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.SalesTransaction, error) {
	var txs []model.SalesTransaction
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("sale_date ASC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.SalesTransaction, int64, error) {
	var txs []model.SalesTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SalesTransaction{})

	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.ItemID != "" {
		q = q.Where("inventory_item_id = ?", filter.ItemID)
	}
	if filter.BatchID != "" {
		q = q.Where("import_batch_id = ?", filter.BatchID)
	}
	if filter.Type != "" && filter.Type != "all" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Date != "" {
		q = q.Where("DATE(sale_date) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Client").Preload("InventoryItem").
		Order("sale_date DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&txs).Error
	return txs, total, err
}

func (r *transactionRepo) Update(ctx context.Context, t *model.SalesTransaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *transactionRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("transaction_id = ?", id).Delete(&model.TransactionStatusLog{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.SalesTransaction{}, id).Error
}

func (r *transactionRepo) CreateStatusLogTx(tx *gorm.DB, l *model.TransactionStatusLog) error {
	return tx.Create(l).Error
}

func (r *transactionRepo) ListStatusLogs(ctx context.Context, transactionID uuid.UUID) ([]model.TransactionStatusLog, error) {
	var logs []model.TransactionStatusLog
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *transactionRepo) AdvisoryLockTx(tx *gorm.DB, clientID, itemID uuid.UUID) error {
	// hashtextextended gives a stable bigint key for the pair
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))",
		clientID.String()+":"+itemID.String()).Error
}
