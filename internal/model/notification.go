package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	KindBirthday      = "birthday"
	KindWishlistMatch = "wishlist_match"
	KindAccount       = "account"
	KindSystem        = "system"
)

// Notification is an in-app message for a user. Email fan-out, when
// requested, happens asynchronously through the worker queue — the row here
// is the source of truth regardless of email delivery.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(20);not null"`
	Title     string    `gorm:"not null"`
	Body      string    `gorm:"not null"`
	// ReferenceID links the triggering record (client, wishlist entry, …).
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	Read        bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time
}
