package dto

import "github.com/shopspring/decimal"

type InventoryFilter struct {
	Serial string `form:"serial"`
	Brand  string `form:"brand"`
	Status string `form:"status"` // in_stock | sold | reserved | out_of_stock | all
	Active string `form:"active,default=true"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateItemRequest struct {
	SerialNumber string          `json:"serial_number" validate:"required"`
	Brand        string          `json:"brand"         validate:"required"`
	Model        string          `json:"model"         validate:"required"`
	Description  *string         `json:"description"`
	Condition    *string         `json:"condition"     validate:"omitempty,oneof=new unworn pre_owned"`
	CostPrice    decimal.Decimal `json:"cost_price"    validate:"required,min=0"`
	RetailPrice  decimal.Decimal `json:"retail_price"  validate:"required,min=0"`
}

type UpdateItemRequest struct {
	Brand       *string          `json:"brand"`
	Model       *string          `json:"model"`
	Description *string          `json:"description"`
	Condition   *string          `json:"condition"    validate:"omitempty,oneof=new unworn pre_owned"`
	CostPrice   *decimal.Decimal `json:"cost_price"   validate:"omitempty,min=0"`
	RetailPrice *decimal.Decimal `json:"retail_price" validate:"omitempty,min=0"`
}

// AdjustStatusRequest drives the manual status endpoint. Sale/credit status
// flips never go through here — they are side effects of the transaction
// service.
type AdjustStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_stock reserved out_of_stock"`
	Reason string `json:"reason" validate:"required"`
}

type ItemResponse struct {
	ID           string          `json:"id"`
	SerialNumber string          `json:"serial_number"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Description  *string         `json:"description,omitempty"`
	Condition    *string         `json:"condition,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	Status       string          `json:"status"`
	Active       bool            `json:"active"`
	CreatedAt    string          `json:"created_at"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
