package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/persistence"
)

// IdempotencyHandler collapses retried submissions (double-click, multi-tab)
// into the original transaction instead of double-charging
type IdempotencyHandler struct {
	transactionRepo persistence.TransactionRepository
}

// NewIdempotencyHandler creates a new IdempotencyHandler
func NewIdempotencyHandler(transactionRepo persistence.TransactionRepository) *IdempotencyHandler {
	return &IdempotencyHandler{
		transactionRepo: transactionRepo,
	}
}

// CheckIdempotency looks up a prior transaction created under the same
// client-supplied key. Returns the transaction, a boolean indicating whether
// it was found, and any error. An empty key disables the check.
func (h *IdempotencyHandler) CheckIdempotency(
	ctx context.Context,
	key string,
) (*entity.Transaction, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	exists, err := h.transactionRepo.ExistsByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	if !exists {
		return nil, false, nil
	}

	txn, err := h.transactionRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			// The entry existed when we checked but was gone by the time we
			// retrieved it. Treat the key as unused.
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("failed to retrieve existing transaction: %w", err)
	}

	return txn, true, nil
}
