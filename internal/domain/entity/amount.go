package entity

import (
	"math"

	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
)

// MaxAmount bounds a single top-up or purchase. Anything above this is
// rejected before it can get near the balance counter.
const MaxAmount = math.MaxInt64 / 2

// ValidateAmount checks that an amount is usable for a ledger operation:
// strictly positive and small enough that applying it can never overflow
// the int64 balance counter.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errs.ErrInvalidAmount
	}
	if amount > MaxAmount {
		return errs.ErrAmountOverflow
	}
	return nil
}
