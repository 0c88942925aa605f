package worker

// birthday_cron.go
// Hourly background goroutine that finds clients whose birthday is today and
// notifies the sales staff so somebody reaches out. A client is greeted at
// most once per year, guarded by last_birthday_greeting.

import (
	"context"
	"fmt"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/service"

	"github.com/rs/zerolog/log"
)

const birthdayTickInterval = time.Hour

// StartBirthdayCron launches the hourly birthday sweep. It respects the
// context for graceful shutdown.
func StartBirthdayCron(ctx context.Context, clientRepo repository.ClientRepository, notifier service.NotificationService) {
	go func() {
		ticker := time.NewTicker(birthdayTickInterval)
		defer ticker.Stop()

		log.Info().Msg("birthday_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("birthday_cron: shutting down")
				return
			case <-ticker.C:
				sweepBirthdays(ctx, clientRepo, notifier)
			}
		}
	}()
}

func sweepBirthdays(ctx context.Context, clientRepo repository.ClientRepository, notifier service.NotificationService) {
	now := time.Now()
	clients, err := clientRepo.FindBirthdaysOn(ctx, now.Month(), now.Day(), now.Year())
	if err != nil {
		log.Error().Err(err).Msg("birthday_cron: query failed")
		return
	}
	if len(clients) == 0 {
		return
	}

	log.Info().Int("count", len(clients)).Msg("birthday_cron: birthdays today")

	for i := range clients {
		c := &clients[i]
		title := fmt.Sprintf("Birthday today: %s %s", c.FirstName, c.LastName)
		body := fmt.Sprintf("%s %s (%s, %s tier) has their birthday today.",
			c.FirstName, c.LastName, c.Email, c.VIPTier)
		if err := notifier.NotifyStaff(ctx, model.KindBirthday, title, body, &c.ID,
			model.RoleSales, model.RoleManager); err != nil {
			log.Error().Err(err).Str("client_id", c.ID.String()).Msg("birthday_cron: notify failed")
			continue
		}
		// Mark only after the notification landed, so a failure retries next tick.
		if err := clientRepo.MarkBirthdayGreeted(ctx, c.ID, now); err != nil {
			log.Error().Err(err).Str("client_id", c.ID.String()).Msg("birthday_cron: mark failed")
		}
	}
}
