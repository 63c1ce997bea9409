package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// MockEntitlementRepository is a mock implementation of persistence.EntitlementRepository
type MockEntitlementRepository struct {
	mock.Mock
}

// Grant mocks the Grant method
func (m *MockEntitlementRepository) Grant(ctx context.Context, entitlement *entity.Entitlement) error {
	args := m.Called(ctx, entitlement)
	return args.Error(0)
}

// Revoke mocks the Revoke method
func (m *MockEntitlementRepository) Revoke(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) error {
	args := m.Called(ctx, userID, kind, resourceID)
	return args.Error(0)
}

// Exists mocks the Exists method
func (m *MockEntitlementRepository) Exists(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) (bool, error) {
	args := m.Called(ctx, userID, kind, resourceID)
	return args.Bool(0), args.Error(1)
}

// ListByUser mocks the ListByUser method
func (m *MockEntitlementRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Entitlement), args.Error(1)
}
