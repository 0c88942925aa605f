package dto

import "github.com/shopspring/decimal"

type ClientFilter struct {
	Search string `form:"search"`            // matches name or email
	Tier   string `form:"tier"`              // regular | vip | premium | all
	Active string `form:"active,default=true"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateClientRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"  validate:"required"`
	Email     string  `json:"email"      validate:"required,email"`
	Phone     *string `json:"phone"`
	Birthday  *string `json:"birthday"   validate:"omitempty,datetime=2006-01-02"`
	Notes     *string `json:"notes"`
}

type UpdateClientRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"    validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Birthday  *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string `json:"notes"`
}

type ClientResponse struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email"`
	Phone         *string         `json:"phone,omitempty"`
	Birthday      *string         `json:"birthday,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	TotalSpend    decimal.Decimal `json:"total_spend"`
	PurchaseCount int             `json:"purchase_count"`
	LastPurchase  *string         `json:"last_purchase,omitempty"`
	VIPTier       string          `json:"vip_tier"`
	Active        bool            `json:"active"`
	CreatedAt     string          `json:"created_at"`
}

type ClientListResponse struct {
	Data  []ClientResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
