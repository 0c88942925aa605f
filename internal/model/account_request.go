package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountRequest is a pending request for system access, submitted through
// the public endpoint and resolved by an admin.
// Status: "pending" | "approved" | "denied"
type AccountRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"not null"`
	Email      string    `gorm:"uniqueIndex;not null"`
	Message    *string
	Status     string     `gorm:"type:varchar(20);not null;default:'pending'"`
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
