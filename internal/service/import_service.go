package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ImportService runs the bulk CSV pipeline. Import and Preview share one
// parse → resolve → duplicate-check path; Preview just never writes.
//
// Required columns: client_email, serial_number, sale_date, selling_price.
// Optional: retail_price, profit_margin, notes. A type column is tolerated
// but only "sale" is accepted: credits carry preconditions (original sale,
// one-credit rule, stock restore, audit log) that the bulk path cannot
// honor, so credit rows are rejected per row.
// Rows are processed sequentially in file order so the seen-in-this-batch
// set composes with the store-level duplicate detector.
type ImportService interface {
	Import(ctx context.Context, userID uuid.UUID, data []byte) (*dto.ImportResult, error)
	Preview(ctx context.Context, userID uuid.UUID, data []byte) (*dto.ImportResult, error)
}

type importService struct {
	txSvc         TransactionService
	clientRepo    repository.ClientRepository
	inventoryRepo repository.InventoryRepository
	cache         SerialCache
}

func NewImportService(
	txSvc TransactionService,
	clientRepo repository.ClientRepository,
	inventoryRepo repository.InventoryRepository,
	cache SerialCache,
) ImportService {
	return &importService{txSvc: txSvc, clientRepo: clientRepo, inventoryRepo: inventoryRepo, cache: cache}
}

// lookupItem resolves a serial through the read-through cache. A nil cache
// falls straight through to the repository.
func (s *importService) lookupItem(ctx context.Context, serial string) (*model.InventoryItem, bool) {
	if s.cache != nil {
		if it, ok := s.cache.Get(ctx, serial); ok {
			return it, true
		}
	}
	it, err := s.inventoryRepo.FindBySerial(ctx, serial)
	if err != nil {
		return nil, false
	}
	if s.cache != nil {
		s.cache.Set(ctx, it)
	}
	return it, true
}

var requiredColumns = []string{"client_email", "serial_number", "sale_date", "selling_price"}

// parsedFile holds the raw records plus the header→index map. Row numbers
// reported to the caller are 1-based file line numbers: the header is line
// 1, so records[i] reports as row i+2.
type parsedFile struct {
	columns map[string]int
	records [][]string
}

func (f *parsedFile) field(record []string, name string) string {
	idx, ok := f.columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseFile parses the upload and validates the header. Only a file that
// cannot be parsed as CSV at all (or lacks a required column) is fatal.
func parseFile(data []byte) (*parsedFile, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unparseable CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		columns[key] = i
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	return &parsedFile{columns: columns, records: rows[1:]}, nil
}

// resolvedRow is one row that survived validation and reference resolution.
type resolvedRow struct {
	client *model.Client
	item   *model.InventoryItem
	tx     *model.SalesTransaction
}

// resolveRow validates one record and resolves its human-readable references
// (client email, item serial) into identifiers. A non-empty reason string
// means the row is rejected; resolution failures are row-level, never fatal.
func (s *importService) resolveRow(ctx context.Context, f *parsedFile, record []string, userID uuid.UUID) (*resolvedRow, string) {
	email := f.field(record, "client_email")
	serial := f.field(record, "serial_number")
	rawDate := f.field(record, "sale_date")
	rawPrice := f.field(record, "selling_price")

	if email == "" {
		return nil, "missing client email"
	}
	if serial == "" {
		return nil, "missing serial number"
	}
	if rawDate == "" {
		return nil, "missing sale date"
	}
	if rawPrice == "" {
		return nil, "missing selling price"
	}

	saleDate, err := ParseSaleDate(rawDate)
	if err != nil {
		return nil, fmt.Sprintf("unparseable sale date %q", rawDate)
	}

	price, err := parsePrice(rawPrice)
	if err != nil {
		return nil, fmt.Sprintf("invalid selling price %q", rawPrice)
	}
	if price.IsNegative() {
		return nil, fmt.Sprintf("negative selling price %q", rawPrice)
	}

	txType := strings.ToLower(f.field(record, "type"))
	if txType == model.TransactionCredit {
		return nil, "credit rows cannot be imported; credit the original sale instead"
	}
	if txType != "" && txType != model.TransactionSale {
		return nil, fmt.Sprintf("invalid transaction type %q", txType)
	}

	client, err := s.clientRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "client not found"
	}
	item, ok := s.lookupItem(ctx, serial)
	if !ok {
		return nil, "item not found"
	}

	t := &model.SalesTransaction{
		ClientID:        client.ID,
		InventoryItemID: item.ID,
		Type:            model.TransactionSale,
		SaleDate:        saleDate,
		SellingPrice:    price,
		Source:          model.SourceCSVImport,
		ProcessedBy:     userID,
	}
	if raw := f.field(record, "retail_price"); raw != "" {
		rp, err := parsePrice(raw)
		if err != nil {
			return nil, fmt.Sprintf("invalid retail price %q", raw)
		}
		t.RetailPrice = &rp
	}
	if raw := f.field(record, "profit_margin"); raw != "" {
		pm, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Sprintf("invalid profit margin %q", raw)
		}
		t.ProfitMargin = &pm
	}
	if notes := f.field(record, "notes"); notes != "" {
		t.Notes = &notes
	}

	return &resolvedRow{client: client, item: item, tx: t}, ""
}

func parsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimPrefix(raw, "$"))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return decimal.NewFromString(cleaned)
}

func batchKey(clientID, itemID uuid.UUID, day time.Time) string {
	return clientID.String() + "|" + itemID.String() + "|" + day.Format("2006-01-02")
}

// Import processes the file row by row, in file order, sequentially.
// Row-level problems are accumulated and reported; only an unparseable file
// or an infrastructure write failure aborts, and in the latter case the
// returned result still carries the true committed count.
func (s *importService) Import(ctx context.Context, userID uuid.UUID, data []byte) (*dto.ImportResult, error) {
	f, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	result := &dto.ImportResult{
		BatchID:    batchID.String(),
		Errors:     []dto.ImportRowError{},
		Duplicates: []dto.ImportRowDuplicate{},
	}
	seen := make(map[string]bool)
	soldInBatch := make(map[uuid.UUID]bool)

	for i, record := range f.records {
		rowNum := i + 2
		raw := strings.Join(record, ",")

		row, reason := s.resolveRow(ctx, f, record, userID)
		if reason != "" {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Reason: reason, RawRow: raw})
			continue
		}

		key := batchKey(row.tx.ClientID, row.tx.InventoryItemID, row.tx.SaleDate)
		if seen[key] {
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row: rowNum, Reason: "duplicate row within this file", RawRow: raw,
			})
			continue
		}
		if soldInBatch[row.tx.InventoryItemID] {
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row: rowNum, Reason: "serial number already sold earlier in this file", RawRow: raw,
			})
			continue
		}

		row.tx.ImportBatchID = &batchID
		err := s.txSvc.Write(ctx, row.tx)
		if dup, ok := AsDuplicate(err); ok {
			result.Duplicates = append(result.Duplicates, dto.ImportRowDuplicate{
				Row:      rowNum,
				Existing: *transactionToResponse(dup.Existing),
				RawRow:   raw,
			})
			continue
		}
		if err != nil {
			// Infrastructure failure: stop here and report the truth — do not
			// silently claim the remaining rows succeeded.
			log.Error().Err(err).Int("row", rowNum).Int("committed", result.SuccessfulCount).
				Str("batch_id", batchID.String()).Msg("csv import aborted")
			return result, fmt.Errorf("import aborted at row %d after %d committed rows: %w",
				rowNum, result.SuccessfulCount, err)
		}

		seen[key] = true
		soldInBatch[row.tx.InventoryItemID] = true
		result.SuccessfulCount++
	}

	log.Info().
		Str("batch_id", batchID.String()).
		Int("imported", result.SuccessfulCount).
		Int("errors", len(result.Errors)).
		Int("duplicates", len(result.Duplicates)).
		Msg("csv import completed")
	return result, nil
}

// Preview runs the identical pipeline with no writes, so a caller can show
// a dry-run before committing.
func (s *importService) Preview(ctx context.Context, userID uuid.UUID, data []byte) (*dto.ImportResult, error) {
	f, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{
		Errors:     []dto.ImportRowError{},
		Duplicates: []dto.ImportRowDuplicate{},
		Valid:      []dto.TransactionResponse{},
	}
	seen := make(map[string]bool)
	soldInBatch := make(map[uuid.UUID]bool)

	for i, record := range f.records {
		rowNum := i + 2
		raw := strings.Join(record, ",")

		row, reason := s.resolveRow(ctx, f, record, userID)
		if reason != "" {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Reason: reason, RawRow: raw})
			continue
		}

		key := batchKey(row.tx.ClientID, row.tx.InventoryItemID, row.tx.SaleDate)
		if seen[key] {
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row: rowNum, Reason: "duplicate row within this file", RawRow: raw,
			})
			continue
		}
		if soldInBatch[row.tx.InventoryItemID] {
			result.Errors = append(result.Errors, dto.ImportRowError{
				Row: rowNum, Reason: "serial number already sold earlier in this file", RawRow: raw,
			})
			continue
		}

		existing, err := s.txSvc.CheckDuplicate(ctx, row.tx.ClientID, row.tx.InventoryItemID, row.tx.SaleDate)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Duplicates = append(result.Duplicates, dto.ImportRowDuplicate{
				Row:      rowNum,
				Existing: *transactionToResponse(existing),
				RawRow:   raw,
			})
			continue
		}

		seen[key] = true
		soldInBatch[row.tx.InventoryItemID] = true
		valid := *transactionToResponse(row.tx)
		valid.ID = "" // not persisted
		result.Valid = append(result.Valid, valid)
		result.SuccessfulCount++
	}

	return result, nil
}
