package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildImportSvc() (service.ImportService, service.TransactionService, *stubTxRepo, *stubClientRepo, *stubInventoryRepo) {
	txRepo := newStubTxRepo()
	clientRepo := newStubClientRepo()
	inventoryRepo := newStubInventoryRepo()
	statsSvc := service.NewStatsService(txRepo, clientRepo)
	txSvc := service.NewTransactionService(txRepo, clientRepo, inventoryRepo, statsSvc, nil)
	svc := service.NewImportService(txSvc, clientRepo, inventoryRepo, nil)
	return svc, txSvc, txRepo, clientRepo, inventoryRepo
}

func TestImport_HappyPath(t *testing.T) {
	svc, _, txRepo, clientRepo, inventoryRepo := buildImportSvc()
	client := clientRepo.seed("anna@example.com")
	item1 := inventoryRepo.seed("SN-1001")
	item2 := inventoryRepo.seed("SN-1002")

	csv := "client_email,serial_number,sale_date,selling_price,notes\n" +
		"anna@example.com,SN-1001,2026-08-01,\"$12,500.00\",anniversary gift\n" +
		"anna@example.com,SN-1002,2026-08-02,9000\n"

	result, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessfulCount)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Duplicates)
	assert.NotEmpty(t, result.BatchID)

	// Prices survive currency formatting.
	assert.Equal(t, "21500", clientRepo.clients[client.ID].TotalSpend.String())
	assert.Equal(t, 2, clientRepo.clients[client.ID].PurchaseCount)

	// Both items sold, every row tagged with the batch.
	assert.Equal(t, model.StatusSold, inventoryRepo.items[item1.ID].Status)
	assert.Equal(t, model.StatusSold, inventoryRepo.items[item2.ID].Status)
	for _, tx := range txRepo.txs {
		require.NotNil(t, tx.ImportBatchID)
		assert.Equal(t, result.BatchID, tx.ImportBatchID.String())
		assert.Equal(t, model.SourceCSVImport, tx.Source)
	}
}

func TestImport_RowErrorsDoNotAbortTheBatch(t *testing.T) {
	svc, _, _, clientRepo, inventoryRepo := buildImportSvc()
	clientRepo.seed("anna@example.com")
	inventoryRepo.seed("SN-1001")
	inventoryRepo.seed("SN-1002")

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@example.com,SN-1001,2026-08-01,9000\n" + // row 2: ok
		",SN-1002,2026-08-01,9000\n" + // row 3: missing email
		"nobody@example.com,SN-1002,2026-08-01,9000\n" + // row 4: unknown client
		"anna@example.com,SN-9999,2026-08-01,9000\n" + // row 5: unknown serial
		"anna@example.com,SN-1002,not-a-date,9000\n" + // row 6: bad date
		"anna@example.com,SN-1002,2026-08-01,abc\n" + // row 7: bad price
		"anna@example.com,SN-1002,2026-08-02,9000\n" // row 8: ok

	result, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessfulCount)
	require.Len(t, result.Errors, 5)

	// Row numbers are 1-based file lines (header = line 1).
	rows := make([]int, 0, len(result.Errors))
	for _, e := range result.Errors {
		rows = append(rows, e.Row)
		assert.NotEmpty(t, e.Reason)
		assert.NotEmpty(t, e.RawRow)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7}, rows)
	assert.Equal(t, "missing client email", result.Errors[0].Reason)
	assert.Equal(t, "client not found", result.Errors[1].Reason)
	assert.Equal(t, "item not found", result.Errors[2].Reason)
}

func TestImport_DuplicateAgainstExistingTransaction(t *testing.T) {
	svc, txSvc, _, clientRepo, inventoryRepo := buildImportSvc()
	client := clientRepo.seed("anna@example.com")
	item := inventoryRepo.seed("SN-1001")

	existing, err := txSvc.Create(context.Background(), uuid.New(), dto.CreateTransactionRequest{
		ClientID:        client.ID.String(),
		InventoryItemID: item.ID.String(),
		SaleDate:        "2026-08-01",
		SellingPrice:    decimal.NewFromInt(9000),
	})
	require.NoError(t, err)

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@example.com,SN-1001,2026-08-01,9000\n"

	result, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessfulCount)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, 2, result.Duplicates[0].Row)
	assert.Equal(t, existing.ID, result.Duplicates[0].Existing.ID)

	// Count never double-counts the replayed row.
	assert.Equal(t, 1, clientRepo.clients[client.ID].PurchaseCount)
}

func TestImport_IdempotentReplay(t *testing.T) {
	svc, _, txRepo, clientRepo, inventoryRepo := buildImportSvc()
	client := clientRepo.seed("anna@example.com")
	inventoryRepo.seed("SN-1001")

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@example.com,SN-1001,2026-08-01,9000\n"

	first, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, first.SuccessfulCount)

	// Re-uploading the same file commits nothing new.
	second, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, second.SuccessfulCount)
	assert.Len(t, second.Duplicates, 1)
	assert.Len(t, txRepo.txs, 1)
	assert.Equal(t, "9000", clientRepo.clients[client.ID].TotalSpend.String())
}

func TestImport_InFileDuplicatesRejected(t *testing.T) {
	svc, _, txRepo, clientRepo, inventoryRepo := buildImportSvc()
	clientRepo.seed("anna@example.com")
	clientRepo.seed("ben@example.com")
	inventoryRepo.seed("SN-1001")

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@example.com,SN-1001,2026-08-01,9000\n" + // row 2: ok
		"anna@example.com,SN-1001,2026-08-01,9000\n" + // row 3: repeat of row 2
		"ben@example.com,SN-1001,2026-08-01,9000\n" // row 4: same serial, other client

	result, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "duplicate row within this file", result.Errors[0].Reason)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Equal(t, "serial number already sold earlier in this file", result.Errors[1].Reason)
	assert.Len(t, txRepo.txs, 1)
}

func TestImport_CreditRowsRejected(t *testing.T) {
	svc, _, txRepo, clientRepo, inventoryRepo := buildImportSvc()
	client := clientRepo.seed("anna@example.com")
	item := inventoryRepo.seed("SN-1001")

	csv := "client_email,serial_number,sale_date,selling_price,type\n" +
		"anna@example.com,SN-1001,2026-08-01,9000,credit\n" +
		"anna@example.com,SN-1001,2026-08-02,9000,sale\n"

	result, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Reason, "credit")

	// Only the sale row landed; spend never goes negative through an import.
	require.Len(t, txRepo.txs, 1)
	for _, tx := range txRepo.txs {
		assert.Equal(t, model.TransactionSale, tx.Type)
	}
	assert.Equal(t, "9000", clientRepo.clients[client.ID].TotalSpend.String())
	assert.Equal(t, model.StatusSold, inventoryRepo.items[item.ID].Status)

	// Replaying the file keeps rejecting the credit row instead of stacking
	// a second one.
	replay, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, replay.SuccessfulCount)
	require.Len(t, replay.Errors, 1)
	assert.Len(t, replay.Duplicates, 1)
	assert.Len(t, txRepo.txs, 1)
	assert.Equal(t, "9000", clientRepo.clients[client.ID].TotalSpend.String())
}

func TestImport_SerialLookupsReadThroughCache(t *testing.T) {
	txRepo := newStubTxRepo()
	clientRepo := newStubClientRepo()
	inventoryRepo := newStubInventoryRepo()
	cache := newFakeCache()
	statsSvc := service.NewStatsService(txRepo, clientRepo)
	txSvc := service.NewTransactionService(txRepo, clientRepo, inventoryRepo, statsSvc, nil)
	svc := service.NewImportService(txSvc, clientRepo, inventoryRepo, cache)

	clientRepo.seed("anna@example.com")
	clientRepo.seed("ben@example.com")
	inventoryRepo.seed("SN-1001")

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@example.com,SN-1001,2026-08-01,9000\n" +
		"ben@example.com,SN-1001,2026-08-02,9000\n" // resolves via cache, then rejected in-batch

	result, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulCount)

	// First row misses and fills the cache; the repeated serial hits it.
	assert.Equal(t, 1, cache.misses)
	assert.Equal(t, 1, cache.hits)
}

func TestImport_MissingRequiredColumnIsFatal(t *testing.T) {
	svc, _, _, _, _ := buildImportSvc()

	csv := "client_email,serial_number,selling_price\n" +
		"anna@example.com,SN-1001,9000\n"

	_, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sale_date")
}

func TestImport_WriteFailureAbortsWithPartialResult(t *testing.T) {
	svc, _, txRepo, clientRepo, inventoryRepo := buildImportSvc()
	clientRepo.seed("anna@example.com")
	inventoryRepo.seed("SN-1001")
	txRepo.createErr = errors.New("connection reset")

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@example.com,SN-1001,2026-08-01,9000\n"

	result, err := svc.Import(context.Background(), uuid.New(), []byte(csv))
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.SuccessfulCount)
	assert.Contains(t, err.Error(), "aborted at row 2")
}

func TestPreview_ReportsWithoutWriting(t *testing.T) {
	svc, txSvc, txRepo, clientRepo, inventoryRepo := buildImportSvc()
	client := clientRepo.seed("anna@example.com")
	item := inventoryRepo.seed("SN-1001")
	item2 := inventoryRepo.seed("SN-1002")

	_, err := txSvc.Create(context.Background(), uuid.New(), dto.CreateTransactionRequest{
		ClientID:        client.ID.String(),
		InventoryItemID: item.ID.String(),
		SaleDate:        "2026-08-01",
		SellingPrice:    decimal.NewFromInt(9000),
	})
	require.NoError(t, err)
	before := len(txRepo.txs)

	csv := "client_email,serial_number,sale_date,selling_price\n" +
		"anna@example.com,SN-1001,2026-08-01,9000\n" + // duplicate of the existing sale
		"anna@example.com,SN-1002,2026-08-01,15000\n" + // would import
		"anna@example.com,SN-9999,2026-08-01,9000\n" // unknown serial

	result, err := svc.Preview(context.Background(), uuid.New(), []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulCount)
	assert.Len(t, result.Duplicates, 1)
	assert.Len(t, result.Errors, 1)
	require.Len(t, result.Valid, 1)
	assert.Empty(t, result.Valid[0].ID)
	assert.Equal(t, item2.ID.String(), result.Valid[0].InventoryItemID)

	// No writes, no status flips, no stats changes.
	assert.Len(t, txRepo.txs, before)
	assert.Equal(t, model.StatusInStock, inventoryRepo.items[item2.ID].Status)
	assert.Equal(t, 1, clientRepo.clients[client.ID].PurchaseCount)
}
