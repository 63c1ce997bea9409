package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	timeadapter "github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/time"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestNewAccount(t *testing.T) {
	tp := timeadapter.NewFixedTimeProvider(fixedNow())

	testCases := []struct {
		name           string
		userID         string
		initialBalance int64
		expectedError  error
	}{
		{
			name:           "valid account with zero balance",
			userID:         "patient-001",
			initialBalance: 0,
			expectedError:  nil,
		},
		{
			name:           "valid account with seed balance",
			userID:         "patient-001",
			initialBalance: 1500,
			expectedError:  nil,
		},
		{
			name:           "empty user ID",
			userID:         "",
			initialBalance: 0,
			expectedError:  errs.ErrInvalidUserID,
		},
		{
			name:           "negative initial balance",
			userID:         "patient-001",
			initialBalance: -100,
			expectedError:  errs.ErrInvalidAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			account, err := NewAccount(tc.userID, tc.initialBalance, tp)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, account)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.userID, account.UserID)
			assert.Equal(t, tc.initialBalance, account.Balance())
			assert.Equal(t, fixedNow(), account.CreatedAt)
			assert.Equal(t, uint64(0), account.TransactionCount)
		})
	}
}

func TestAccount_CanAfford(t *testing.T) {
	tp := timeadapter.NewFixedTimeProvider(fixedNow())
	account, err := NewAccount("patient-001", 1000, tp)
	require.NoError(t, err)

	assert.True(t, account.CanAfford(999))
	assert.True(t, account.CanAfford(1000), "exact balance must be affordable")
	assert.False(t, account.CanAfford(1001))
}

func TestAccount_CreditAndDebit(t *testing.T) {
	tp := timeadapter.NewFixedTimeProvider(fixedNow())
	account, err := NewAccount("patient-001", 0, tp)
	require.NoError(t, err)

	account.Credit(2000, tp)
	assert.Equal(t, int64(2000), account.Balance())
	assert.Equal(t, uint64(1), account.TransactionCount)

	err = account.Debit(300, tp)
	require.NoError(t, err)
	assert.Equal(t, int64(1700), account.Balance())
	assert.Equal(t, uint64(2), account.TransactionCount)
}

func TestAccount_Debit_Overdraft(t *testing.T) {
	tp := timeadapter.NewFixedTimeProvider(fixedNow())
	account, err := NewAccount("patient-001", 500, tp)
	require.NoError(t, err)

	err = account.Debit(501, tp)
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

	// The failed debit must not touch the balance or the counter
	assert.Equal(t, int64(500), account.Balance())
	assert.Equal(t, uint64(0), account.TransactionCount)

	var detailed *errs.InsufficientBalanceError
	require.ErrorAs(t, err, &detailed)
	assert.Equal(t, "patient-001", detailed.UserID)
	assert.Equal(t, int64(501), detailed.Amount)
	assert.Equal(t, int64(500), detailed.CurrBalance)
}

func TestAccount_Debit_ExactBalance(t *testing.T) {
	tp := timeadapter.NewFixedTimeProvider(fixedNow())
	account, err := NewAccount("patient-001", 1000, tp)
	require.NoError(t, err)

	err = account.Debit(1000, tp)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance())
}
