package dto

import "github.com/shopspring/decimal"

type RepairFilter struct {
	ClientID string `form:"client_id" validate:"omitempty,uuid"`
	Status   string `form:"status"` // received | in_progress | ready | delivered | all
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateRepairRequest struct {
	ClientID     string           `json:"client_id"     validate:"required,uuid"`
	Description  string           `json:"description"   validate:"required"`
	SerialNumber *string          `json:"serial_number"`
	QuotedPrice  *decimal.Decimal `json:"quoted_price"  validate:"omitempty,min=0"`
	PromisedDate *string          `json:"promised_date" validate:"omitempty,datetime=2006-01-02"`
}

// RepairStatusRequest advances a repair to the next status.
type RepairStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=in_progress ready delivered"`
	Note   *string `json:"note"`
}

type RepairResponse struct {
	ID           string           `json:"id"`
	ClientID     string           `json:"client_id"`
	Description  string           `json:"description"`
	SerialNumber *string          `json:"serial_number,omitempty"`
	QuotedPrice  *decimal.Decimal `json:"quoted_price,omitempty"`
	Status       string           `json:"status"`
	PromisedDate *string          `json:"promised_date,omitempty"`
	CreatedAt    string           `json:"created_at"`
}

type RepairListResponse struct {
	Data  []RepairResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
