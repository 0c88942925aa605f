package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repair status values. Transitions are linear and each one is appended to
// the immutable RepairStatusLog.
const (
	RepairReceived   = "received"
	RepairInProgress = "in_progress"
	RepairReady      = "ready"
	RepairDelivered  = "delivered"
)

// Repair tracks a customer item sent out for service.
type Repair struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"not null"`
	// SerialNumber of the customer's own piece — not necessarily in inventory.
	SerialNumber  *string
	QuotedPrice   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status        string           `gorm:"type:varchar(20);not null;default:'received';index"`
	PromisedDate  *time.Time
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Client *Client `gorm:"foreignKey:ClientID"`
}

// RepairStatusLog is an append-only record of repair status transitions.
type RepairStatusLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RepairID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"type:varchar(20);not null"`
	ToStatus   string    `gorm:"type:varchar(20);not null"`
	Note       *string
	ChangedBy  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
}

func (RepairStatusLog) TableName() string { return "repair_status_logs" }
