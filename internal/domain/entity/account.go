package entity

import (
	"time"

	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
)

// Account represents a user's wallet. The balance is a materialized counter
// over the paid transactions of the ledger; it is only ever updated in the
// same storage transaction that appends a ledger entry, so at every
// observation point balance == sum of paid transaction amounts.
type Account struct {
	UserID           string    // Identifier supplied by the session collaborator
	balance          int64     // Materialized balance counter (private)
	CreatedAt        time.Time // When the account was created
	UpdatedAt        time.Time // When the account was last updated
	TransactionCount uint64    // Count of paid transactions applied to this account
}

// NewAccount creates a new account with the given user ID and initial balance
func NewAccount(userID string, initialBalance int64, timeProvider coreport.TimeProvider) (*Account, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if initialBalance < 0 {
		return nil, errs.ErrInvalidAmount
	}

	now := timeProvider.Now()
	return &Account{
		UserID:           userID,
		balance:          initialBalance,
		CreatedAt:        now,
		UpdatedAt:        now,
		TransactionCount: 0,
	}, nil
}

// Balance returns the current balance in integer currency units
func (a *Account) Balance() int64 {
	return a.balance
}

// SetBalance updates the balance directly (for internal use, like repositories)
func (a *Account) SetBalance(balance int64, timeProvider coreport.TimeProvider) {
	a.balance = balance
	a.UpdatedAt = timeProvider.Now()
}

// CanAfford reports whether the account holds at least amount
func (a *Account) CanAfford(amount int64) bool {
	return a.balance >= amount
}

// Credit adds amount to the balance. Amount must already be validated.
func (a *Account) Credit(amount int64, timeProvider coreport.TimeProvider) {
	a.balance += amount
	a.UpdatedAt = timeProvider.Now()
	a.TransactionCount++
}

// Debit subtracts amount from the balance if sufficient balance exists.
// Returns an error if the debit would overdraw the account.
func (a *Account) Debit(amount int64, timeProvider coreport.TimeProvider) error {
	if a.balance < amount {
		return errs.NewInsufficientBalanceError(a.UserID, amount, a.balance)
	}

	a.balance -= amount
	a.UpdatedAt = timeProvider.Now()
	a.TransactionCount++
	return nil
}
