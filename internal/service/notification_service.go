package service

import (
	"context"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationService persists in-app notifications and fans out email
// through the worker queue. The database row is the source of truth; email
// is a courtesy copy and its failure is never surfaced to the caller.
type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	// NotifyStaff creates one notification per active user holding any of the
	// given roles, plus a queued email for those with an address on file.
	NotifyStaff(ctx context.Context, kind, title, body string, refID *uuid.UUID, roles ...string) error
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	queue    JobQueue
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, queue JobQueue) NotificationService {
	return &notificationService{repo: repo, userRepo: userRepo, queue: queue}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]dto.NotificationResponse, error) {
	ns, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.NotificationResponse, 0, len(ns))
	for i := range ns {
		n := &ns[i]
		r := dto.NotificationResponse{
			ID:        n.ID.String(),
			Kind:      n.Kind,
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		if n.ReferenceID != nil {
			id := n.ReferenceID.String()
			r.ReferenceID = &id
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *notificationService) NotifyStaff(ctx context.Context, kind, title, body string, refID *uuid.UUID, roles ...string) error {
	users, err := s.userRepo.ListByRole(ctx, roles...)
	if err != nil {
		return err
	}

	var emails []string
	for i := range users {
		u := &users[i]
		n := &model.Notification{
			UserID:      u.ID,
			Kind:        kind,
			Title:       title,
			Body:        body,
			ReferenceID: refID,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return err
		}
		if u.Email != nil {
			emails = append(emails, *u.Email)
		}
	}

	if s.queue != nil && len(emails) > 0 {
		if err := s.queue.EnqueueEmail(ctx, emails, title, body); err != nil {
			log.Error().Err(err).Str("kind", kind).Msg("email fan-out enqueue failed")
		}
	}
	return nil
}
