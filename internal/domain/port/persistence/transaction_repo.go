package persistence

import (
	"context"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// TransactionRepository defines essential methods to interact with the
// append-only transaction ledger
type TransactionRepository interface {
	// Create appends a new ledger entry
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If an entry with the same idempotency key exists
	// - ErrStorage: If the underlying store fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves a ledger entry by its ID
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no entry with the given ID exists
	// - ErrStorage: If the underlying store fails
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// GetByIdempotencyKey retrieves the entry created under a client-supplied
	// idempotency key. Used to collapse retried submissions.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the key was never used
	// - ErrStorage: If the underlying store fails
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error)

	// ExistsByIdempotencyKey checks whether an idempotency key was already used
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	ExistsByIdempotencyKey(ctx context.Context, key string) (bool, error)

	// ListByUser returns the user's ledger entries, newest first
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error)
}
