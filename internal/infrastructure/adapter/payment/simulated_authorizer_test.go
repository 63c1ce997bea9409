package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/logger"
)

func TestSimulatedAuthorizer_ZeroLatencyApprovesImmediately(t *testing.T) {
	authorizer := NewSimulatedAuthorizer(0, logger.NewNoopLogger())

	assert.NoError(t, authorizer.AuthorizeTopUp(context.Background(), "patient-001", 500))
	assert.NoError(t, authorizer.AuthorizePurchase(context.Background(), "patient-001", 300))
}

func TestSimulatedAuthorizer_ApprovesAfterLatency(t *testing.T) {
	authorizer := NewSimulatedAuthorizer(core.Duration(5*time.Millisecond), logger.NewNoopLogger())

	start := time.Now()
	err := authorizer.AuthorizePurchase(context.Background(), "patient-001", 300)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestSimulatedAuthorizer_HonorsDeadline(t *testing.T) {
	authorizer := NewSimulatedAuthorizer(core.Duration(500*time.Millisecond), logger.NewNoopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := authorizer.AuthorizeTopUp(ctx, "patient-001", 500)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimulatedAuthorizer_HonorsCancellation(t *testing.T) {
	authorizer := NewSimulatedAuthorizer(core.Duration(500*time.Millisecond), logger.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := authorizer.AuthorizePurchase(ctx, "patient-001", 300)
	assert.ErrorIs(t, err, context.Canceled)
}
