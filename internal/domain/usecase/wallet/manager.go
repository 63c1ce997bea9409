package wallet

import (
	"context"
	"sync"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
)

// defaultQueueSize bounds how many operations may wait per account
const defaultQueueSize = 100

// OperationFunc is the function signature for a queued wallet operation
type OperationFunc func(ctx context.Context) (*entity.Transaction, error)

// OperationManager serializes mutating wallet operations per account. Each
// account gets its own worker goroutine fed by a buffered channel, so two
// concurrent purchases for the same user are applied one after the other and
// the second always sees the post-debit balance.
type OperationManager struct {
	logger coreport.Logger

	// Account-based operation queues for strict ordering
	accountQueues  sync.Map // map[string]chan *operationRequest
	queueWaitGroup sync.WaitGroup
	queueSize      int
}

// operationRequest represents a queued wallet operation
type operationRequest struct {
	ctx        context.Context
	op         OperationFunc
	resultChan chan *operationResult
}

// operationResult represents the outcome of a processed operation
type operationResult struct {
	txn *entity.Transaction
	err error
}

// NewOperationManager creates a new per-account operation manager
func NewOperationManager(logger coreport.Logger, queueSize int) *OperationManager {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &OperationManager{
		logger:    logger,
		queueSize: queueSize,
	}
}

// Enqueue adds an operation to the account's queue and waits for its result.
// A caller may abandon the wait via ctx, but the operation itself runs to
// completion or timeout once picked up; the caller must re-query history to
// learn the outcome in that case.
func (m *OperationManager) Enqueue(ctx context.Context, userID string, op OperationFunc) (*entity.Transaction, error) {
	m.logger.Debug("Enqueuing wallet operation for sequential processing", map[string]any{
		"user_id": userID,
	})

	resultChan := make(chan *operationResult, 1)

	// Get or create queue for this account
	var queue chan *operationRequest
	queueIface, loaded := m.accountQueues.LoadOrStore(userID, make(chan *operationRequest, m.queueSize))
	if queueCh, ok := queueIface.(chan *operationRequest); ok {
		queue = queueCh
	} else {
		m.logger.Error("Failed to type assert queue channel", nil)
		return nil, errs.ErrInternalServer
	}

	// Start worker if this is a new queue
	if !loaded {
		m.logger.Info("Starting wallet queue worker for account", map[string]any{
			"user_id": userID,
		})
		m.queueWaitGroup.Add(1)
		go m.processAccountOperations(userID, queue)
	}

	req := &operationRequest{
		ctx:        ctx,
		op:         op,
		resultChan: resultChan,
	}

	select {
	case queue <- req:
	case <-ctx.Done():
		m.logger.Warn("Context canceled while enqueueing wallet operation", map[string]any{
			"user_id": userID,
			"error":   ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}

	select {
	case result := <-resultChan:
		return result.txn, result.err
	case <-ctx.Done():
		m.logger.Warn("Context canceled while waiting for wallet operation result", map[string]any{
			"user_id": userID,
			"error":   ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}
}

// processAccountOperations handles the worker goroutine for one account
func (m *OperationManager) processAccountOperations(userID string, queue chan *operationRequest) {
	defer m.queueWaitGroup.Done()

	m.logger.Info("Wallet queue worker started", map[string]any{
		"user_id": userID,
	})

	for req := range queue {
		txn, err := req.op(req.ctx)

		req.resultChan <- &operationResult{
			txn: txn,
			err: err,
		}
		close(req.resultChan)
	}

	m.logger.Info("Wallet queue worker stopped", map[string]any{
		"user_id": userID,
	})
}

// Shutdown stops all worker goroutines cleanly
func (m *OperationManager) Shutdown() {
	m.logger.Info("Shutting down wallet operation manager", nil)

	m.accountQueues.Range(func(userID, queueIface interface{}) bool {
		if queue, ok := queueIface.(chan *operationRequest); ok {
			m.logger.Debug("Closing wallet queue for account", map[string]any{
				"user_id": userID,
			})
			close(queue)
		}
		return true
	})

	m.queueWaitGroup.Wait()
	m.logger.Info("Wallet operation manager shut down successfully", nil)
}
