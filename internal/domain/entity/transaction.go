package entity

import (
	"time"

	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
)

// TransactionKind represents the kind of a ledger transaction
type TransactionKind string

// Transaction kinds
const (
	KindTopUp    TransactionKind = "topup"
	KindPurchase TransactionKind = "purchase"
	KindRefund   TransactionKind = "refund"
)

// TransactionStatus defines possible settlement states for a transaction.
// Only paid transactions count toward the balance.
type TransactionStatus string

// TransactionStatus constants
const (
	StatusInitiated TransactionStatus = "initiated"
	StatusPaid      TransactionStatus = "paid"
	StatusFailed    TransactionStatus = "failed"
)

// ResourceKind partitions the entitlement space
type ResourceKind string

// Resource kinds priced through the wallet
const (
	ResourceRecording ResourceKind = "recording"
	ResourceChat      ResourceKind = "chat"
)

// ResourceRef points a purchase at the digital good it pays for
type ResourceRef struct {
	Kind ResourceKind
	ID   string
}

// IsZero reports whether the reference is empty
func (r ResourceRef) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// Transaction represents one immutable entry of the ledger. Paid transactions
// are never edited; corrections are appended as refunds.
type Transaction struct {
	ID             string            // Unique identifier (uuid)
	UserID         string            // Account this entry belongs to
	Kind           TransactionKind   // topup, purchase or refund
	Amount         int64             // Signed; top-ups/refunds positive, purchases negative
	Description    string            // Human-readable description
	Status         TransactionStatus // Settlement state
	IdempotencyKey string            // Optional client-supplied key to collapse retries
	Resource       ResourceRef       // Resource paid for, if any
	RefundOf       string            // For refunds, the ID of the refunded purchase
	CreatedAt      time.Time         // When the entry was created
	ProcessedAt    *time.Time        // When the entry settled (nullable)
	ResultBalance  int64             // Balance after this entry settled
}

// NewTopUp creates an initiated top-up transaction with basic validation
func NewTopUp(id, userID string, amount int64, description string, timeProvider coreport.TimeProvider) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	return &Transaction{
		ID:          id,
		UserID:      userID,
		Kind:        KindTopUp,
		Amount:      amount,
		Description: description,
		Status:      StatusInitiated,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// NewPurchase creates an initiated purchase transaction. The stored amount is
// negated so that the ledger sum stays equal to the balance.
func NewPurchase(id, userID string, amount int64, description string, resource ResourceRef, timeProvider coreport.TimeProvider) (*Transaction, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if resource.IsZero() {
		return nil, errs.ErrInvalidResource
	}

	return &Transaction{
		ID:          id,
		UserID:      userID,
		Kind:        KindPurchase,
		Amount:      -amount,
		Description: description,
		Status:      StatusInitiated,
		Resource:    resource,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// NewRefund creates an initiated refund transaction reversing a paid purchase.
// A refund is a new ledger entry, never a mutation of the original.
func NewRefund(id string, original *Transaction, description string, timeProvider coreport.TimeProvider) (*Transaction, error) {
	if original == nil {
		return nil, errs.ErrTransactionNotFound
	}
	if original.Kind != KindPurchase || original.Status != StatusPaid {
		return nil, errs.ErrTransactionNotRefundable
	}

	return &Transaction{
		ID:          id,
		UserID:      original.UserID,
		Kind:        KindRefund,
		Amount:      -original.Amount,
		Description: description,
		Status:      StatusInitiated,
		Resource:    original.Resource,
		RefundOf:    original.ID,
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// MarkPaid marks the transaction as settled and records the resulting balance
func (t *Transaction) MarkPaid(timeProvider coreport.TimeProvider, resultBalance int64) {
	now := timeProvider.Now()
	t.ProcessedAt = &now
	t.ResultBalance = resultBalance
	t.Status = StatusPaid
}

// MarkFailed marks the transaction as failed
func (t *Transaction) MarkFailed(timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	t.ProcessedAt = &now
	t.Status = StatusFailed
}

// IsCredit returns true if this transaction increases the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit returns true if this transaction decreases the balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// CountsTowardBalance reports whether the entry participates in the balance
// invariant (only paid entries do)
func (t *Transaction) CountsTowardBalance() bool {
	return t.Status == StatusPaid
}
