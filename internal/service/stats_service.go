package service

import (
	"context"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// VIP tier thresholds on cumulative spend.
var (
	vipThreshold     = decimal.NewFromInt(10000)
	premiumThreshold = decimal.NewFromInt(50000)
)

// StatsService recomputes a client's aggregate fields from the full
// transaction history. It is the sole writer of total_spend,
// purchase_count, last_purchase, and vip_tier — no other code path may
// mutate them. A full recomputation (never an incremental delta)
// guarantees correctness under replays, batch imports, and credits.
type StatsService interface {
	// Recompute scans the client's history and persists all four aggregate
	// fields. Idempotent and self-correcting: safe to re-run at any time.
	Recompute(ctx context.Context, clientID uuid.UUID) error
}

type statsService struct {
	txRepo     repository.TransactionRepository
	clientRepo repository.ClientRepository
}

func NewStatsService(txRepo repository.TransactionRepository, clientRepo repository.ClientRepository) StatsService {
	return &statsService{txRepo: txRepo, clientRepo: clientRepo}
}

func (s *statsService) Recompute(ctx context.Context, clientID uuid.UUID) error {
	txs, err := s.txRepo.ListByClient(ctx, clientID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	count := 0
	var last *time.Time

	for i := range txs {
		t := &txs[i]
		switch t.Type {
		case model.TransactionSale:
			total = total.Add(t.SellingPrice)
			count++
			if last == nil || t.SaleDate.After(*last) {
				d := t.SaleDate
				last = &d
			}
		case model.TransactionCredit:
			// Credits subtract from spend but do not decrement the purchase count.
			total = total.Sub(t.SellingPrice)
		}
	}

	tier := TierForSpend(total)

	if err := s.clientRepo.UpdateStats(ctx, clientID, total, count, last, tier); err != nil {
		return err
	}

	log.Debug().
		Str("client_id", clientID.String()).
		Str("total_spend", total.StringFixed(2)).
		Int("purchase_count", count).
		Str("vip_tier", tier).
		Msg("client stats recomputed")
	return nil
}

// TierForSpend maps cumulative spend onto a VIP tier.
func TierForSpend(spend decimal.Decimal) string {
	switch {
	case spend.GreaterThanOrEqual(premiumThreshold):
		return model.TierPremium
	case spend.GreaterThanOrEqual(vipThreshold):
		return model.TierVIP
	default:
		return model.TierRegular
	}
}
