package dto

type LeadFilter struct {
	Status string `form:"status"` // new | contacted | qualified | closed | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateLeadRequest struct {
	Name             string  `json:"name"   validate:"required"`
	Email            *string `json:"email"  validate:"omitempty,email"`
	Phone            *string `json:"phone"`
	Source           *string `json:"source" validate:"omitempty,oneof=referral walk_in website instagram"`
	Notes            *string `json:"notes"`
	ItemOfInterestID *string `json:"item_of_interest_id" validate:"omitempty,uuid"`
}

type UpdateLeadRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"  validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status" validate:"omitempty,oneof=new contacted qualified closed"`
	Notes    *string `json:"notes"`
	ClientID *string `json:"client_id" validate:"omitempty,uuid"` // set when the lead converts
}

type LeadResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Source           *string `json:"source,omitempty"`
	Status           string  `json:"status"`
	Notes            *string `json:"notes,omitempty"`
	ClientID         *string `json:"client_id,omitempty"`
	ItemOfInterestID *string `json:"item_of_interest_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type LeadListResponse struct {
	Data  []LeadResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
