package wallet

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/persistence"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/logger"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/payment"
	timeadapter "github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/time"
)

// memoryStore is an in-memory stand-in for the persistence layer. It backs
// all three repositories and the unit of work, with a single mutex standing
// in for the database's row locks.
type memoryStore struct {
	mu           sync.Mutex
	balances     map[string]int64
	txnCounts    map[string]uint64
	transactions []*entity.Transaction
	entitlements map[string]bool
	timeProvider coreport.TimeProvider
}

func newMemoryStore(tp coreport.TimeProvider) *memoryStore {
	return &memoryStore{
		balances:     make(map[string]int64),
		txnCounts:    make(map[string]uint64),
		entitlements: make(map[string]bool),
		timeProvider: tp,
	}
}

func (s *memoryStore) seedAccount(userID string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] = balance
}

func (s *memoryStore) accountSnapshot(userID string) (*entity.Account, error) {
	balance, ok := s.balances[userID]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	account, err := entity.NewAccount(userID, 0, s.timeProvider)
	if err != nil {
		return nil, err
	}
	account.SetBalance(balance, s.timeProvider)
	account.TransactionCount = s.txnCounts[userID]
	return account, nil
}

// paidSum returns the sum of paid ledger amounts for the user, for asserting
// the balance invariant
func (s *memoryStore) paidSum(userID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, txn := range s.transactions {
		if txn.UserID == userID && txn.Status == entity.StatusPaid {
			sum += txn.Amount
		}
	}
	return sum
}

func entitlementKey(userID string, kind entity.ResourceKind, resourceID string) string {
	return userID + "|" + string(kind) + "|" + resourceID
}

// memoryAccountRepo implements persistence.AccountRepository on the store
type memoryAccountRepo struct{ store *memoryStore }

func (r *memoryAccountRepo) GetByID(ctx context.Context, userID string) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.accountSnapshot(userID)
}

func (r *memoryAccountRepo) Create(ctx context.Context, account *entity.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.balances[account.UserID]; exists {
		return errs.ErrDuplicateAccount
	}
	r.store.balances[account.UserID] = account.Balance()
	return nil
}

func (r *memoryAccountRepo) ApplyBalanceChange(ctx context.Context, userID string, change int64) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	balance, ok := r.store.balances[userID]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	newBalance := balance + change
	if newBalance < 0 {
		return nil, errs.NewInsufficientBalanceError(userID, -change, balance)
	}
	r.store.balances[userID] = newBalance
	r.store.txnCounts[userID]++
	return r.store.accountSnapshot(userID)
}

// memoryTransactionRepo implements persistence.TransactionRepository on the store
type memoryTransactionRepo struct{ store *memoryStore }

func (r *memoryTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if transaction.IdempotencyKey != "" {
		for _, existing := range r.store.transactions {
			if existing.IdempotencyKey == transaction.IdempotencyKey {
				return errs.NewDuplicateTransactionError(transaction.IdempotencyKey, transaction.UserID)
			}
		}
	}
	clone := *transaction
	r.store.transactions = append(r.store.transactions, &clone)
	return nil
}

func (r *memoryTransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, txn := range r.store.transactions {
		if txn.ID == id {
			clone := *txn
			return &clone, nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

func (r *memoryTransactionRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, txn := range r.store.transactions {
		if txn.IdempotencyKey == key {
			clone := *txn
			return &clone, nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

func (r *memoryTransactionRepo) ExistsByIdempotencyKey(ctx context.Context, key string) (bool, error) {
	_, err := r.GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errs.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *memoryTransactionRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.Transaction
	for _, txn := range r.store.transactions {
		if txn.UserID == userID {
			clone := *txn
			result = append(result, &clone)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// memoryEntitlementRepo implements persistence.EntitlementRepository on the store
type memoryEntitlementRepo struct{ store *memoryStore }

func (r *memoryEntitlementRepo) Grant(ctx context.Context, entitlement *entity.Entitlement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entitlements[entitlementKey(entitlement.UserID, entitlement.ResourceKind, entitlement.ResourceID)] = true
	return nil
}

func (r *memoryEntitlementRepo) Revoke(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.entitlements, entitlementKey(userID, kind, resourceID))
	return nil
}

func (r *memoryEntitlementRepo) Exists(ctx context.Context, userID string, kind entity.ResourceKind, resourceID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.entitlements[entitlementKey(userID, kind, resourceID)], nil
}

func (r *memoryEntitlementRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error) {
	return nil, nil
}

// memoryUnitOfWork hands out the live repositories. The fake has no real
// transaction isolation; the per-account serialization of the service keeps
// operations on one account from interleaving.
type memoryUnitOfWork struct {
	store *memoryStore
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (u *memoryUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (u *memoryUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

func (u *memoryUnitOfWork) GetAccountRepository(ctx context.Context) persistence.AccountRepository {
	return &memoryAccountRepo{store: u.store}
}

func (u *memoryUnitOfWork) GetTransactionRepository(ctx context.Context) persistence.TransactionRepository {
	return &memoryTransactionRepo{store: u.store}
}

func (u *memoryUnitOfWork) GetEntitlementRepository(ctx context.Context) persistence.EntitlementRepository {
	return &memoryEntitlementRepo{store: u.store}
}

type serviceFixture struct {
	service *Service
	store   *memoryStore
	ents    *memoryEntitlementRepo
}

func newServiceFixture(t *testing.T, authorizerLatency coreport.Duration, processTimeout coreport.Duration) *serviceFixture {
	t.Helper()

	tp := timeadapter.NewRealTimeProvider()
	log := logger.NewNoopLogger()
	store := newMemoryStore(tp)

	service := NewService(
		&memoryUnitOfWork{store: store},
		&memoryAccountRepo{store: store},
		&memoryTransactionRepo{store: store},
		payment.NewSimulatedAuthorizer(authorizerLatency, log),
		tp,
		log,
		processTimeout,
		10,
	)
	t.Cleanup(service.Shutdown)

	return &serviceFixture{
		service: service,
		store:   store,
		ents:    &memoryEntitlementRepo{store: store},
	}
}

func TestService_TopUp(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 0)

	txn, err := f.service.TopUp(context.Background(), "patient-001", TopUpRequest{Amount: 2000})
	require.NoError(t, err)

	assert.Equal(t, entity.KindTopUp, txn.Kind)
	assert.Equal(t, entity.StatusPaid, txn.Status)
	assert.Equal(t, int64(2000), txn.Amount)
	assert.Equal(t, int64(2000), txn.ResultBalance)
	assert.Equal(t, defaultTopUpDescription, txn.Description)

	balance, err := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), balance)
	assert.Equal(t, balance, f.store.paidSum("patient-001"), "balance must equal the sum of paid ledger amounts")
}

func TestService_TopUp_InvalidAmount(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 0)

	for _, amount := range []int64{0, -100} {
		_, err := f.service.TopUp(context.Background(), "patient-001", TopUpRequest{Amount: amount})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	}

	balance, err := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance, "rejected top-ups must not touch the balance")
}

func TestService_TopUp_NoAccount(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)

	_, err := f.service.TopUp(context.Background(), "ghost", TopUpRequest{Amount: 100})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestService_Purchase(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1500)

	resource := entity.ResourceRef{Kind: entity.ResourceRecording, ID: "rec-001"}
	txn, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:      300,
		Description: "Grabación: Cardiología Básica",
		Resource:    resource,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.KindPurchase, txn.Kind)
	assert.Equal(t, int64(-300), txn.Amount, "purchases are recorded negated")
	assert.Equal(t, int64(1200), txn.ResultBalance)

	// The entitlement must be readable as soon as Purchase returns
	granted, err := f.ents.Exists(context.Background(), "patient-001", entity.ResourceRecording, "rec-001")
	require.NoError(t, err)
	assert.True(t, granted, "purchase must grant the entitlement before returning")

	balance, err := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), balance)
	assert.Equal(t, balance, f.store.paidSum("patient-001"))
}

func TestService_Purchase_InsufficientBalance(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 200)

	_, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   300,
		Resource: entity.ResourceRef{Kind: entity.ResourceChat, ID: "chat-001"},
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

	// Nothing was persisted: no ledger entry, no entitlement, balance intact
	balance, balErr := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, balErr)
	assert.Equal(t, int64(200), balance)

	granted, entErr := f.ents.Exists(context.Background(), "patient-001", entity.ResourceChat, "chat-001")
	require.NoError(t, entErr)
	assert.False(t, granted, "a failed purchase must not grant access")

	history, histErr := f.service.History(context.Background(), "patient-001")
	require.NoError(t, histErr)
	assert.Empty(t, history)
}

func TestService_Purchase_ExactBalance(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 300)

	txn, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   300,
		Resource: entity.ResourceRef{Kind: entity.ResourceRecording, ID: "rec-002"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), txn.ResultBalance, "spending the exact balance is allowed")
}

func TestService_Purchase_InvalidResource(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1000)

	_, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   100,
		Resource: entity.ResourceRef{},
	})
	assert.ErrorIs(t, err, errs.ErrInvalidResource)

	_, err = f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   100,
		Resource: entity.ResourceRef{Kind: "subscription", ID: "sub-001"},
	})
	assert.ErrorIs(t, err, errs.ErrInvalidResource)
}

// Two concurrent purchases of 1000 against a balance of 1000: exactly one
// must succeed and the loser must see the post-debit balance, never a
// negative one.
func TestService_Purchase_ConcurrentExactBalance(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1000)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
				Amount:   1000,
				Resource: entity.ResourceRef{Kind: entity.ResourceRecording, ID: "rec-00" + string(rune('1'+idx))},
			})
			results[idx] = err
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errs.IsInsufficientBalanceError(err):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one of the concurrent purchases may succeed")
	assert.Equal(t, 1, insufficient, "the second purchase must fail with insufficient balance")

	balance, err := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
	assert.Equal(t, balance, f.store.paidSum("patient-001"))
}

func TestService_Purchase_ConcurrentManyUsers(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)

	users := []string{"patient-001", "patient-002", "patient-003"}
	for _, u := range users {
		f.store.seedAccount(u, 500)
	}

	var wg sync.WaitGroup
	for _, u := range users {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, _ = f.service.Purchase(context.Background(), userID, PurchaseRequest{
					Amount:   100,
					Resource: entity.ResourceRef{Kind: entity.ResourceChat, ID: "chat-001"},
				})
			}(u)
		}
	}
	wg.Wait()

	for _, u := range users {
		balance, err := f.service.Balance(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance, "all five purchases of 100 against 500 must settle for %s", u)
		assert.Equal(t, balance, f.store.paidSum(u))
	}
}

func TestService_Idempotency(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 0)

	req := TopUpRequest{Amount: 500, IdempotencyKey: "topup-abc"}

	first, err := f.service.TopUp(context.Background(), "patient-001", req)
	require.NoError(t, err)

	// A retried submission with the same key returns the original entry
	second, err := f.service.TopUp(context.Background(), "patient-001", req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	balance, err := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance, "the replay must not credit twice")

	history, err := f.service.History(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestService_Idempotency_ConcurrentReplay(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1000)

	req := PurchaseRequest{
		Amount:         300,
		Resource:       entity.ResourceRef{Kind: entity.ResourceRecording, ID: "rec-001"},
		IdempotencyKey: "purchase-xyz",
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.service.Purchase(context.Background(), "patient-001", req)
		}()
	}
	wg.Wait()

	balance, err := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance, "four replays of one purchase must debit once")
}

func TestService_ProcessingTimeout(t *testing.T) {
	// Authorizer latency far above the processing timeout
	f := newServiceFixture(t, coreport.Duration(500*time.Millisecond), coreport.Duration(20*time.Millisecond))
	f.store.seedAccount("patient-001", 1000)

	_, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   300,
		Resource: entity.ResourceRef{Kind: entity.ResourceRecording, ID: "rec-001"},
	})
	assert.ErrorIs(t, err, errs.ErrProcessingTimeout)

	// The timed-out operation left no trace
	balance, balErr := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, balErr)
	assert.Equal(t, int64(1000), balance)

	history, histErr := f.service.History(context.Background(), "patient-001")
	require.NoError(t, histErr)
	assert.Empty(t, history)
}

func TestService_Refund(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1500)

	purchase, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   300,
		Resource: entity.ResourceRef{Kind: entity.ResourceRecording, ID: "rec-001"},
	})
	require.NoError(t, err)

	refund, err := f.service.Refund(context.Background(), "patient-001", purchase.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.KindRefund, refund.Kind)
	assert.Equal(t, int64(300), refund.Amount)
	assert.Equal(t, purchase.ID, refund.RefundOf)
	assert.Equal(t, int64(1500), refund.ResultBalance)

	// Refunds restore money, not revoke access: the entitlement survives
	granted, err := f.ents.Exists(context.Background(), "patient-001", entity.ResourceRecording, "rec-001")
	require.NoError(t, err)
	assert.True(t, granted)

	// The original entry is untouched; the correction is a new entry
	history, err := f.service.History(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	assert.Equal(t, int64(1500), f.store.paidSum("patient-001"))
}

func TestService_Refund_OnlyOnce(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1000)

	purchase, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   400,
		Resource: entity.ResourceRef{Kind: entity.ResourceChat, ID: "chat-001"},
	})
	require.NoError(t, err)

	_, err = f.service.Refund(context.Background(), "patient-001", purchase.ID)
	require.NoError(t, err)

	_, err = f.service.Refund(context.Background(), "patient-001", purchase.ID)
	assert.ErrorIs(t, err, errs.ErrTransactionNotRefundable)

	balance, err := f.service.Balance(context.Background(), "patient-001")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance, "a purchase may only be refunded once")
}

func TestService_Refund_WrongUser(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1000)
	f.store.seedAccount("patient-002", 1000)

	purchase, err := f.service.Purchase(context.Background(), "patient-001", PurchaseRequest{
		Amount:   300,
		Resource: entity.ResourceRef{Kind: entity.ResourceRecording, ID: "rec-001"},
	})
	require.NoError(t, err)

	// Another user refunding someone else's entry looks like a missing entry
	_, err = f.service.Refund(context.Background(), "patient-002", purchase.ID)
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
}

func TestService_Refund_TopUpNotRefundable(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 0)

	topUp, err := f.service.TopUp(context.Background(), "patient-001", TopUpRequest{Amount: 500})
	require.NoError(t, err)

	_, err = f.service.Refund(context.Background(), "patient-001", topUp.ID)
	assert.ErrorIs(t, err, errs.ErrTransactionNotRefundable)
}

func TestService_CanAfford(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 1000)

	can, err := f.service.CanAfford(context.Background(), "patient-001", 1000)
	require.NoError(t, err)
	assert.True(t, can)

	can, err = f.service.CanAfford(context.Background(), "patient-001", 1001)
	require.NoError(t, err)
	assert.False(t, can)

	_, err = f.service.CanAfford(context.Background(), "ghost", 1)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestService_History_NewestFirst(t *testing.T) {
	f := newServiceFixture(t, 0, coreport.Second)
	f.store.seedAccount("patient-001", 0)

	for _, amount := range []int64{100, 200, 300} {
		_, err := f.service.TopUp(context.Background(), "patient-001", TopUpRequest{Amount: amount})
		require.NoError(t, err)
	}

	history, err := f.service.History(context.Background(), "patient-001")
	require.NoError(t, err)
	require.Len(t, history, 3)

	for i := 1; i < len(history); i++ {
		assert.False(t, history[i-1].CreatedAt.Before(history[i].CreatedAt), "history must be ordered newest first")
	}
}
