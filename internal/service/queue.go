package service

import (
	"context"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
)

// JobQueue decouples services from the Redis-backed worker pool. Services
// enqueue and move on; delivery happens asynchronously. A nil JobQueue is
// valid in unit tests — callers must tolerate it.
type JobQueue interface {
	EnqueueEmail(ctx context.Context, to []string, subject, body string) error
}

// SerialCache is the read-through cache in front of serial-number lookups.
// Imports hit the same few serials over and over, so this cuts most of the
// per-row queries. Implementations must treat the database as the source of
// truth: writes invalidate, never update.
type SerialCache interface {
	Get(ctx context.Context, serial string) (*model.InventoryItem, bool)
	Set(ctx context.Context, it *model.InventoryItem)
	Invalidate(ctx context.Context, serial string)
}
