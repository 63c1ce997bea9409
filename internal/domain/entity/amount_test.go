package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
)

func TestValidateAmount(t *testing.T) {
	testCases := []struct {
		name          string
		amount        int64
		expectedError error
	}{
		{"valid small amount", 1, nil},
		{"valid typical amount", 1500, nil},
		{"valid maximum amount", MaxAmount, nil},
		{"zero amount", 0, errs.ErrInvalidAmount},
		{"negative amount", -300, errs.ErrInvalidAmount},
		{"amount above overflow bound", MaxAmount + 1, errs.ErrAmountOverflow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAmount(tc.amount)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
