package model

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a prospective buyer working through the sales pipeline.
// Status: "new" | "contacted" | "qualified" | "closed"
type Lead struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Email     *string
	Phone     *string
	Source    *string // referral | walk_in | website | instagram
	Status    string  `gorm:"type:varchar(20);not null;default:'new';index"`
	Notes     *string
	// ClientID is set when the lead converts into a client.
	ClientID *uuid.UUID `gorm:"type:uuid"`
	// ItemOfInterestID optionally links the inventory item the lead asked about.
	ItemOfInterestID *uuid.UUID `gorm:"type:uuid"`
	AssignedTo       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
