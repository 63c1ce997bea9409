package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// MockTransactionRepository is a mock implementation of persistence.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

// GetByID mocks the GetByID method
func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// GetByIdempotencyKey mocks the GetByIdempotencyKey method
func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// ExistsByIdempotencyKey mocks the ExistsByIdempotencyKey method
func (m *MockTransactionRepository) ExistsByIdempotencyKey(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// ListByUser mocks the ListByUser method
func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}
