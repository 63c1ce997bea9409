package usecase

import (
	"context"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// AccountUseCase defines account lifecycle operations consumed by the API layer
type AccountUseCase interface {
	// CreateAccount opens a wallet account for a user at first authenticated
	// session. Creating an existing account returns ErrDuplicateAccount.
	CreateAccount(ctx context.Context, userID string, initialBalance int64) (*entity.Account, error)

	// EnsureAccount opens the account if it does not exist yet and returns it
	EnsureAccount(ctx context.Context, userID string) (*entity.Account, error)

	// GetAccount retrieves an account by user ID
	GetAccount(ctx context.Context, userID string) (*entity.Account, error)

	// AccountExists checks whether an account exists for the user
	AccountExists(ctx context.Context, userID string) (bool, error)
}
