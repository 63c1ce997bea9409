package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/persistence"
)

// defaultTopUpDescription is used when the caller supplies none
const defaultTopUpDescription = "Balance top-up"

// TopUpRequest carries the input for a top-up
type TopUpRequest struct {
	Amount         int64
	Description    string
	IdempotencyKey string
}

// PurchaseRequest carries the input for a purchase of a priced resource
type PurchaseRequest struct {
	Amount         int64
	Description    string
	Resource       entity.ResourceRef
	IdempotencyKey string
}

// Service applies top-ups, purchases and refunds to the ledger. Mutations are
// funneled through the per-account OperationManager and applied inside a unit
// of work, so the ledger entry, the balance counter and any entitlement grant
// commit or roll back together.
type Service struct {
	uow             persistence.UnitOfWork
	accountRepo     persistence.AccountRepository
	transactionRepo persistence.TransactionRepository
	manager         *OperationManager
	validator       *Validator
	idempotency     *IdempotencyHandler
	authorizer      coreport.PaymentAuthorizer
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	processTimeout  coreport.Duration
}

// NewService creates a new wallet service
func NewService(
	uow persistence.UnitOfWork,
	accountRepo persistence.AccountRepository,
	transactionRepo persistence.TransactionRepository,
	authorizer coreport.PaymentAuthorizer,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	processTimeout coreport.Duration,
	queueSize int,
) *Service {
	return &Service{
		uow:             uow,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		manager:         NewOperationManager(logger, queueSize),
		validator:       NewValidator(),
		idempotency:     NewIdempotencyHandler(transactionRepo),
		authorizer:      authorizer,
		timeProvider:    timeProvider,
		logger:          logger,
		processTimeout:  processTimeout,
	}
}

// TopUp credits the account and appends a paid top-up entry to the ledger.
// Balance update and ledger append are one logical operation.
func (s *Service) TopUp(ctx context.Context, userID string, req TopUpRequest) (*entity.Transaction, error) {
	if err := s.validator.ValidateTopUp(userID, req.Amount); err != nil {
		return nil, fmt.Errorf("invalid top-up: %w", err)
	}

	// Early idempotency check so duplicate requests return without queueing
	if txn, found, err := s.idempotency.CheckIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if found {
		return txn, nil
	}

	return s.manager.Enqueue(ctx, userID, func(opCtx context.Context) (*entity.Transaction, error) {
		return s.executeTopUp(opCtx, userID, req)
	})
}

// Purchase debits the account, appends a paid purchase entry and grants the
// entitlement for the referenced resource before returning. When Purchase
// returns success the grant is visible to subsequent reads.
func (s *Service) Purchase(ctx context.Context, userID string, req PurchaseRequest) (*entity.Transaction, error) {
	if err := s.validator.ValidatePurchase(userID, req.Amount, req.Resource); err != nil {
		return nil, fmt.Errorf("invalid purchase: %w", err)
	}

	if txn, found, err := s.idempotency.CheckIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if found {
		return txn, nil
	}

	return s.manager.Enqueue(ctx, userID, func(opCtx context.Context) (*entity.Transaction, error) {
		return s.executePurchase(opCtx, userID, req)
	})
}

// Refund reverses a paid purchase by appending a compensating ledger entry.
// The entitlement granted by the original purchase is left in place; refunds
// are balance-affecting only.
func (s *Service) Refund(ctx context.Context, userID, transactionID string) (*entity.Transaction, error) {
	if err := s.validator.ValidateRefund(userID, transactionID); err != nil {
		return nil, err
	}

	return s.manager.Enqueue(ctx, userID, func(opCtx context.Context) (*entity.Transaction, error) {
		return s.executeRefund(opCtx, userID, transactionID)
	})
}

// Balance returns the current materialized balance
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Balance(), nil
}

// CanAfford reports whether the account holds at least amount. Pure read.
func (s *Service) CanAfford(ctx context.Context, userID string, amount int64) (bool, error) {
	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return account.CanAfford(amount), nil
}

// History returns the account's ledger entries, newest first
func (s *Service) History(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	return s.transactionRepo.ListByUser(ctx, userID)
}

// Shutdown stops the per-account workers cleanly
func (s *Service) Shutdown() {
	s.manager.Shutdown()
}

// authorize runs the external payment signal under the configured timeout.
// On expiry the operation fails with ErrProcessingTimeout before any state
// was touched.
func (s *Service) authorize(ctx context.Context, userID string, amount int64, topUp bool) error {
	authCtx, cancel := s.timeProvider.WithTimeout(ctx, s.processTimeout)
	defer cancel()

	var err error
	if topUp {
		err = s.authorizer.AuthorizeTopUp(authCtx, userID, amount)
	} else {
		err = s.authorizer.AuthorizePurchase(authCtx, userID, amount)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("Payment authorization timed out", map[string]any{
				"user_id": userID,
				"amount":  amount,
			})
			return fmt.Errorf("%w: %s", errs.ErrProcessingTimeout, err.Error())
		}
		return err
	}
	return nil
}

// executeTopUp runs inside the account's queue worker
func (s *Service) executeTopUp(ctx context.Context, userID string, req TopUpRequest) (*entity.Transaction, error) {
	// Re-check idempotency now that we're serialized on this account; the
	// early check races with an in-flight duplicate of the same key
	if txn, found, err := s.idempotency.CheckIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if found {
		return txn, nil
	}

	if err := s.authorize(ctx, userID, req.Amount, true); err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = defaultTopUpDescription
	}

	txn, err := entity.NewTopUp(uuid.NewString(), userID, req.Amount, description, s.timeProvider)
	if err != nil {
		return nil, err
	}
	txn.IdempotencyKey = req.IdempotencyKey

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	account, err := s.uow.GetAccountRepository(txCtx).ApplyBalanceChange(txCtx, userID, req.Amount)
	if err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	txn.MarkPaid(s.timeProvider, account.Balance())

	if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, txn); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		s.rollback(txCtx)
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	s.logger.Info("Top-up processed", map[string]any{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"amount":         req.Amount,
		"result_balance": txn.ResultBalance,
	})
	return txn, nil
}

// executePurchase runs inside the account's queue worker
func (s *Service) executePurchase(ctx context.Context, userID string, req PurchaseRequest) (*entity.Transaction, error) {
	if txn, found, err := s.idempotency.CheckIdempotency(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if found {
		return txn, nil
	}

	// Affordability pre-check against the serialized view. The authoritative
	// check happens again under the row lock inside ApplyBalanceChange.
	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !account.CanAfford(req.Amount) {
		return nil, errs.NewInsufficientBalanceError(userID, req.Amount, account.Balance())
	}

	if err := s.authorize(ctx, userID, req.Amount, false); err != nil {
		return nil, err
	}

	txn, err := entity.NewPurchase(uuid.NewString(), userID, req.Amount, req.Description, req.Resource, s.timeProvider)
	if err != nil {
		return nil, err
	}
	txn.IdempotencyKey = req.IdempotencyKey

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	updated, err := s.uow.GetAccountRepository(txCtx).ApplyBalanceChange(txCtx, userID, -req.Amount)
	if err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	txn.MarkPaid(s.timeProvider, updated.Balance())

	if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, txn); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	// Grant the entitlement in the same unit of work so payment state and
	// access state can never diverge
	entitlement := &entity.Entitlement{
		UserID:       userID,
		ResourceKind: req.Resource.Kind,
		ResourceID:   req.Resource.ID,
		GrantedAt:    s.timeProvider.Now(),
		Source:       txn.ID,
	}
	if err := s.uow.GetEntitlementRepository(txCtx).Grant(txCtx, entitlement); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		s.rollback(txCtx)
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	s.logger.Info("Purchase processed", map[string]any{
		"user_id":        userID,
		"transaction_id": txn.ID,
		"amount":         req.Amount,
		"resource_kind":  string(req.Resource.Kind),
		"resource_id":    req.Resource.ID,
		"result_balance": txn.ResultBalance,
	})
	return txn, nil
}

// executeRefund runs inside the account's queue worker
func (s *Service) executeRefund(ctx context.Context, userID, transactionID string) (*entity.Transaction, error) {
	original, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.UserID != userID {
		// Don't leak other users' ledger entries
		return nil, errs.ErrTransactionNotFound
	}

	// A purchase can be refunded once; look for an existing compensating entry
	history, err := s.transactionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, entry := range history {
		if entry.Kind == entity.KindRefund && entry.RefundOf == original.ID && entry.Status == entity.StatusPaid {
			return nil, errs.ErrTransactionNotRefundable
		}
	}

	refund, err := entity.NewRefund(uuid.NewString(), original, "Refund: "+original.Description, s.timeProvider)
	if err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	account, err := s.uow.GetAccountRepository(txCtx).ApplyBalanceChange(txCtx, userID, refund.Amount)
	if err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	refund.MarkPaid(s.timeProvider, account.Balance())

	if err := s.uow.GetTransactionRepository(txCtx).Create(txCtx, refund); err != nil {
		s.rollback(txCtx)
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		s.rollback(txCtx)
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	s.logger.Info("Refund processed", map[string]any{
		"user_id":        userID,
		"transaction_id": refund.ID,
		"refund_of":      original.ID,
		"amount":         refund.Amount,
		"result_balance": refund.ResultBalance,
	})
	return refund, nil
}

func (s *Service) rollback(ctx context.Context) {
	if err := s.uow.Rollback(ctx); err != nil {
		s.logger.Error("Failed to roll back wallet operation", map[string]any{
			"error": err.Error(),
		})
	}
}
