package dto

import "github.com/shopspring/decimal"

type CreateWishRequest struct {
	ClientID string           `json:"client_id" validate:"required,uuid"`
	Brand    string           `json:"brand"     validate:"required"`
	Model    *string          `json:"model"`
	MaxPrice *decimal.Decimal `json:"max_price" validate:"omitempty,min=0"`
	Notes    *string          `json:"notes"`
}

type WishResponse struct {
	ID            string           `json:"id"`
	ClientID      string           `json:"client_id"`
	Brand         string           `json:"brand"`
	Model         *string          `json:"model,omitempty"`
	MaxPrice      *decimal.Decimal `json:"max_price,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	Status        string           `json:"status"`
	MatchedItemID *string          `json:"matched_item_id,omitempty"`
	CreatedAt     string           `json:"created_at"`
}
