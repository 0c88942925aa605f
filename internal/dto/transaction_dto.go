package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// TransactionFilter is bound from the query string of GET /v1/transactions.
type TransactionFilter struct {
	ClientID string `form:"client_id" validate:"omitempty,uuid"`
	ItemID   string `form:"item_id"   validate:"omitempty,uuid"`
	BatchID  string `form:"batch_id"  validate:"omitempty,uuid"`
	Type     string `form:"type"`                // sale | credit | all
	Date     string `form:"date"`                // YYYY-MM-DD; empty = no date filter
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTransactionRequest struct {
	ClientID        string           `json:"client_id"         validate:"required,uuid"`
	InventoryItemID string           `json:"inventory_item_id" validate:"required,uuid"`
	Type            string           `json:"type"              validate:"omitempty,oneof=sale"`
	SaleDate        string           `json:"sale_date"         validate:"required"` // YYYY-MM-DD or RFC3339
	SellingPrice    decimal.Decimal  `json:"selling_price"     validate:"required,min=0"`
	RetailPrice     *decimal.Decimal `json:"retail_price"      validate:"omitempty,min=0"`
	ProfitMargin    *decimal.Decimal `json:"profit_margin"`
	Notes           *string          `json:"notes"`
	// ConfirmedDuplicate lets the caller insist after a 409 duplicate response.
	ConfirmedDuplicate bool `json:"confirmed_duplicate"`
}

type UpdateTransactionRequest struct {
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,min=0"`
	RetailPrice  *decimal.Decimal `json:"retail_price"  validate:"omitempty,min=0"`
	ProfitMargin *decimal.Decimal `json:"profit_margin"`
	Notes        *string          `json:"notes"`
}

type CreateCreditRequest struct {
	Reason       string           `json:"reason"        validate:"required"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,min=0"` // defaults to the original sale price
	Notes        *string          `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionResponse struct {
	ID              string           `json:"id"`
	ClientID        string           `json:"client_id"`
	ClientName      string           `json:"client_name,omitempty"`
	InventoryItemID string           `json:"inventory_item_id"`
	SerialNumber    string           `json:"serial_number,omitempty"`
	Type            string           `json:"type"`
	SaleDate        string           `json:"sale_date"`
	SellingPrice    decimal.Decimal  `json:"selling_price"`
	RetailPrice     *decimal.Decimal `json:"retail_price,omitempty"`
	ProfitMargin    *decimal.Decimal `json:"profit_margin,omitempty"`
	OriginalID      *string          `json:"original_id,omitempty"`
	ImportBatchID   *string          `json:"import_batch_id,omitempty"`
	Source          string           `json:"source"`
	Notes           *string          `json:"notes,omitempty"`
	ProcessedBy     string           `json:"processed_by"`
	CreatedAt       string           `json:"created_at"`
}

type StatusLogResponse struct {
	ID         string `json:"id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Reason     string `json:"reason"`
	ChangedBy  string `json:"changed_by"`
	CreatedAt  string `json:"created_at"`
}
