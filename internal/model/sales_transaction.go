package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types and sources.
const (
	TransactionSale   = "sale"
	TransactionCredit = "credit"

	SourceManual    = "manual"
	SourceCSVImport = "csv_import"
)

// SalesTransaction records one sale or credit event.
//
// Invariants:
//   - a "credit" must reference its originating "sale" via OriginalID;
//   - SellingPrice is required and non-negative;
//   - no two transactions may share (client, item, calendar day) unless the
//     caller explicitly confirmed the row as a non-duplicate, in which case
//     ConfirmedDuplicate is persisted and the row is excluded from the
//     backstop unique index.
//
// Rows are never hard-deleted through normal business flow; credits create
// inverse entries instead of mutating the original.
type SalesTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID        uuid.UUID `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type            string    `gorm:"type:varchar(10);not null;default:'sale'"`
	SaleDate        time.Time `gorm:"not null;index"`
	RetailPrice     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SellingPrice    decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ProfitMargin    *decimal.Decimal `gorm:"type:decimal(5,2)"`
	// OriginalID is set only on credits and points at the reversed sale.
	OriginalID *uuid.UUID `gorm:"type:uuid;index"`
	// ImportBatchID groups all rows created by one CSV upload (traceability only).
	ImportBatchID      *uuid.UUID `gorm:"type:uuid;index"`
	Source             string     `gorm:"type:varchar(20);not null;default:'manual'"`
	ConfirmedDuplicate bool       `gorm:"not null;default:false"`
	Notes              *string
	ProcessedBy        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Client        *Client           `gorm:"foreignKey:ClientID"`
	InventoryItem *InventoryItem    `gorm:"foreignKey:InventoryItemID"`
	Original      *SalesTransaction `gorm:"foreignKey:OriginalID"`
}

func (SalesTransaction) TableName() string { return "sales_transactions" }

// TransactionStatusLog is the append-only audit trail of status transitions
// on a transaction (e.g. sold → credited). Entries are write-once — never
// updated or deleted.
type TransactionStatusLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus    string    `gorm:"type:varchar(20);not null"`
	ToStatus      string    `gorm:"type:varchar(20);not null"`
	Reason        string    `gorm:"not null"`
	ChangedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time

	Transaction *SalesTransaction `gorm:"foreignKey:TransactionID"`
}

func (TransactionStatusLog) TableName() string { return "transaction_status_logs" }
