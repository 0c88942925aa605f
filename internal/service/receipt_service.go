package service

import (
	"context"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/infra"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
)

// ReceiptService renders the printable PDF for a transaction.
type ReceiptService interface {
	// Generate writes the PDF and returns its path on disk.
	Generate(ctx context.Context, id uuid.UUID) (string, error)
}

type receiptService struct {
	repo        repository.TransactionRepository
	storeName   string
	storagePath string
}

func NewReceiptService(repo repository.TransactionRepository, storeName, storagePath string) ReceiptService {
	return &receiptService{repo: repo, storeName: storeName, storagePath: storagePath}
}

func (s *receiptService) Generate(ctx context.Context, id uuid.UUID) (string, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", ErrNotFound
	}
	return infra.GenerateReceiptPDF(t, s.storeName, s.storagePath)
}
