package service

import (
	"errors"
	"fmt"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
)

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes; everything else is treated as an infrastructure failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyCredited = errors.New("transaction has already been credited")
	ErrNotASale        = errors.New("only sale transactions can be credited")

	ErrItemSold          = errors.New("item status is managed by its sale; credit the sale instead")
	ErrSerialTaken       = errors.New("serial number already registered")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrAlreadyResolved   = errors.New("account request already resolved")
	ErrBadTransition     = errors.New("invalid status transition")
)

// DuplicateError reports that a matching transaction (same client, same
// item, same calendar day) already exists. Distinct from validation errors
// so callers can choose to skip, confirm, or inspect.
type DuplicateError struct {
	Existing *model.SalesTransaction
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate transaction: existing %s on %s",
		e.Existing.ID, e.Existing.SaleDate.Format("2006-01-02"))
}

// AsDuplicate unwraps err into a *DuplicateError when it is one.
func AsDuplicate(err error) (*DuplicateError, bool) {
	var d *DuplicateError
	ok := errors.As(err, &d)
	return d, ok
}

// Response renders the existing transaction for a 409 conflict body.
func (e *DuplicateError) Response() *dto.TransactionResponse {
	return transactionToResponse(e.Existing)
}
