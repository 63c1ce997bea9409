package wallet

import (
	"fmt"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
)

// Validator performs pre-flight validation of wallet requests before any
// locks are taken or storage is touched
type Validator struct{}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateTopUp checks a top-up request
func (v *Validator) ValidateTopUp(userID string, amount int64) error {
	if userID == "" {
		return errs.ErrNotAuthenticated
	}
	if err := entity.ValidateAmount(amount); err != nil {
		return err
	}
	return nil
}

// ValidatePurchase checks a purchase request, including its resource reference
func (v *Validator) ValidatePurchase(userID string, amount int64, resource entity.ResourceRef) error {
	if userID == "" {
		return errs.ErrNotAuthenticated
	}
	if err := entity.ValidateAmount(amount); err != nil {
		return err
	}
	if resource.IsZero() || resource.ID == "" {
		return errs.ErrInvalidResource
	}
	if resource.Kind != entity.ResourceRecording && resource.Kind != entity.ResourceChat {
		return fmt.Errorf("%w: unknown resource kind %q", errs.ErrInvalidResource, resource.Kind)
	}
	return nil
}

// ValidateRefund checks a refund request
func (v *Validator) ValidateRefund(userID, transactionID string) error {
	if userID == "" {
		return errs.ErrNotAuthenticated
	}
	if transactionID == "" {
		return errs.ErrTransactionNotFound
	}
	return nil
}
