package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistEntry records what a client is looking for. When a matching item
// is taken into inventory the wishlist service flags the entry and enqueues
// a notification for the client's salesperson.
// Status: "open" | "matched" | "closed"
type WishlistEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Brand    string    `gorm:"index;not null"`
	Model    *string
	MaxPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes    *string
	Status   string     `gorm:"type:varchar(20);not null;default:'open'"`
	MatchedItemID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Client *Client `gorm:"foreignKey:ClientID"`
}

func (WishlistEntry) TableName() string { return "wishlist_entries" }
