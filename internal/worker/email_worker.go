package worker

// email_worker.go
// Processes email jobs from QueueEmail: account approvals, wishlist match
// alerts, and receipt deliveries.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To         []string `json:"to"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	AttachPath string   `json:"attach_path,omitempty"`
}

// EmailWorker sends queued mail via SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends one email. A returned error triggers the pool's retry/DLQ
// handling.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		// Malformed payloads can never succeed: drop instead of retrying.
		return nil
	}
	if len(payload.To) == 0 {
		log.Warn().Msg("email_worker: empty recipient list, skipping")
		return nil
	}

	if err := w.mailer.Send(payload.To, payload.Subject, payload.Body, payload.AttachPath); err != nil {
		log.Error().Err(err).Strs("to", payload.To).Msg("email_worker: send failed")
		return errors.New("smtp send failed")
	}
	log.Info().Strs("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: sent")
	return nil
}
