package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating ledger operations across
// multiple repositories so that a balance change, its ledger entry and any
// entitlement grant commit or roll back as one
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetAccountRepository returns an account repository bound to the current transaction
	GetAccountRepository(ctx context.Context) AccountRepository

	// GetTransactionRepository returns a transaction repository bound to the current transaction
	GetTransactionRepository(ctx context.Context) TransactionRepository

	// GetEntitlementRepository returns an entitlement repository bound to the current transaction
	GetEntitlementRepository(ctx context.Context) EntitlementRepository
}
