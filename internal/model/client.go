package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VIP tier classification, derived purely from cumulative spend.
const (
	TierRegular = "regular"
	TierVIP     = "vip"
	TierPremium = "premium"
)

// Client is a customer of the store. The aggregate fields (TotalSpend,
// PurchaseCount, LastPurchase, VIPTier) are a pure function of the client's
// transaction history — they are recomputed in full by the stats service
// after every transaction mutation and must never be patched elsewhere.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"index;not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Phone     *string
	Birthday  *time.Time
	Notes     *string

	// Aggregates — written only by the stats service
	TotalSpend    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PurchaseCount int             `gorm:"not null;default:0"`
	LastPurchase  *time.Time
	VIPTier       string `gorm:"type:varchar(20);not null;default:'regular';column:vip_tier"`

	// LastBirthdayGreeting prevents the hourly birthday cron from greeting
	// the same client twice in one year.
	LastBirthdayGreeting *time.Time

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
