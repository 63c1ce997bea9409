package payment

import (
	"context"
	"time"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
)

// SimulatedAuthorizer stands in for an external payment processor. It
// approves every request after an optional artificial latency, and honors
// the caller's deadline so a slow "processor" surfaces as a timeout rather
// than partial state.
type SimulatedAuthorizer struct {
	latency core.Duration
	logger  core.Logger
}

// NewSimulatedAuthorizer creates a new simulated payment authorizer
func NewSimulatedAuthorizer(latency core.Duration, logger core.Logger) *SimulatedAuthorizer {
	return &SimulatedAuthorizer{
		latency: latency,
		logger:  logger,
	}
}

// AuthorizeTopUp simulates collecting external funds for a top-up
func (a *SimulatedAuthorizer) AuthorizeTopUp(ctx context.Context, userID string, amount int64) error {
	return a.process(ctx, userID, amount, "topup")
}

// AuthorizePurchase simulates capturing an internal purchase
func (a *SimulatedAuthorizer) AuthorizePurchase(ctx context.Context, userID string, amount int64) error {
	return a.process(ctx, userID, amount, "purchase")
}

func (a *SimulatedAuthorizer) process(ctx context.Context, userID string, amount int64, kind string) error {
	if a.latency <= 0 {
		return ctx.Err()
	}

	a.logger.Debug("Simulating payment processor latency", map[string]any{
		"user_id": userID,
		"amount":  amount,
		"kind":    kind,
		"latency": a.latency.Std().String(),
	})

	timer := time.NewTimer(a.latency.Std())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
