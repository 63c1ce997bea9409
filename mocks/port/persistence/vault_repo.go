package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// MockVaultRepository is a mock implementation of persistence.VaultRepository
type MockVaultRepository struct {
	mock.Mock
}

// CreateFile mocks the CreateFile method
func (m *MockVaultRepository) CreateFile(ctx context.Context, file *entity.VaultFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

// GetFile mocks the GetFile method
func (m *MockVaultRepository) GetFile(ctx context.Context, fileID string) (*entity.VaultFile, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VaultFile), args.Error(1)
}

// DeleteFile mocks the DeleteFile method
func (m *MockVaultRepository) DeleteFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

// ListFilesByOwner mocks the ListFilesByOwner method
func (m *MockVaultRepository) ListFilesByOwner(ctx context.Context, ownerID string) ([]*entity.VaultFile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.VaultFile), args.Error(1)
}

// AddPermission mocks the AddPermission method
func (m *MockVaultRepository) AddPermission(ctx context.Context, permission *entity.VaultPermission) error {
	args := m.Called(ctx, permission)
	return args.Error(0)
}

// RemovePermission mocks the RemovePermission method
func (m *MockVaultRepository) RemovePermission(ctx context.Context, fileID, doctorID string) error {
	args := m.Called(ctx, fileID, doctorID)
	return args.Error(0)
}

// ListFilesByDoctor mocks the ListFilesByDoctor method
func (m *MockVaultRepository) ListFilesByDoctor(ctx context.Context, doctorID string) ([]*entity.VaultFile, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.VaultFile), args.Error(1)
}
