package persistence

import (
	"context"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// AccountRepository defines essential methods to interact with account data
type AccountRepository interface {
	// GetByID retrieves an account by user ID
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account exists for the user
	// - ErrStorage: If the underlying store fails
	GetByID(ctx context.Context, userID string) (*entity.Account, error)

	// Create creates a new account
	//
	// Possible errors:
	// - ErrDuplicateAccount: If an account for the user already exists
	// - ErrStorage: If the underlying store fails
	Create(ctx context.Context, account *entity.Account) error

	// ApplyBalanceChange atomically applies a signed change to the materialized
	// balance counter under an exclusive row lock, so a concurrent operation on
	// the same account re-reads the post-change balance before its own
	// affordability check. Returns the updated account.
	//
	// Possible errors:
	// - ErrAccountNotFound: If no account exists for the user
	// - ErrInsufficientBalance: If the change would overdraw the account
	// - ErrAccountLocked: If the row lock could not be obtained in time
	// - ErrStorage: If the underlying store fails
	ApplyBalanceChange(ctx context.Context, userID string, change int64) (*entity.Account, error)
}
