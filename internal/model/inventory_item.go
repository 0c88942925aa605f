package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory item status values.
const (
	StatusInStock    = "in_stock"
	StatusSold       = "sold"
	StatusReserved   = "reserved"
	StatusOutOfStock = "out_of_stock"
)

// InventoryItem is one sellable unit, identified by its unique serial number.
// Status must be "sold" while an active (non-credited) sale references the
// item and "in_stock" once that sale is credited. The transaction service
// maintains this by side effect inside the same DB transaction as the sale.
type InventoryItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SerialNumber string    `gorm:"uniqueIndex;not null"`
	Brand        string    `gorm:"index;not null"`
	Model        string    `gorm:"not null"`
	Description  *string
	Condition    *string         `gorm:"type:varchar(20)"` // new | unworn | pre_owned
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RetailPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'in_stock';index"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (InventoryItem) TableName() string { return "inventory_items" }
