package core

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPaymentAuthorizer is a mock implementation of core.PaymentAuthorizer
type MockPaymentAuthorizer struct {
	mock.Mock
}

// AuthorizeTopUp mocks the AuthorizeTopUp method
func (m *MockPaymentAuthorizer) AuthorizeTopUp(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

// AuthorizePurchase mocks the AuthorizePurchase method
func (m *MockPaymentAuthorizer) AuthorizePurchase(ctx context.Context, userID string, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}
