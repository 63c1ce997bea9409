package persistence

import (
	"context"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// EntitlementRepository defines methods for the per-user access-grant sets
type EntitlementRepository interface {
	// Grant records an entitlement. Granting an already-held resource must be
	// a no-op, not an error.
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	Grant(ctx context.Context, entitlement *entity.Entitlement) error

	// Revoke removes an entitlement. Revoking an absent entitlement is a no-op.
	// Exists for refund/admin correction paths; the purchase flow never calls it.
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	Revoke(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) error

	// Exists checks for an explicit grant
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	Exists(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) (bool, error)

	// ListByUser returns all grants held by the user
	//
	// Possible errors:
	// - ErrStorage: If the underlying store fails
	ListByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error)
}
