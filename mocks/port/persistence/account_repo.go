// Package persistence provides hand-written testify mocks for the domain
// persistence ports.
package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// MockAccountRepository is a mock implementation of persistence.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// GetByID mocks the GetByID method
func (m *MockAccountRepository) GetByID(ctx context.Context, userID string) (*entity.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

// Create mocks the Create method
func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// ApplyBalanceChange mocks the ApplyBalanceChange method
func (m *MockAccountRepository) ApplyBalanceChange(ctx context.Context, userID string, change int64) (*entity.Account, error) {
	args := m.Called(ctx, userID, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}
