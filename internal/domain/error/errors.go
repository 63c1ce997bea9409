package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance  = 4001
	CodeInvalidAmount        = 4002
	CodeInvalidUserID        = 4003
	CodeDuplicateTransaction = 4004
	CodeNotAuthenticated     = 4010
	CodeNotOwner             = 4030
	CodeAccountNotFound      = 4040
	CodeTransactionNotFound  = 4041
	CodeFileNotFound         = 4042
	CodeNotFound             = 4044
	CodeProcessingTimeout    = 4080
	CodeAccountLocked        = 4230

	// 5xxx - Server errors
	CodeStorage        = 5001
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInvalidAmount is returned when an amount is zero or negative
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrInsufficientBalance is returned when a purchase exceeds the current balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidUserID is returned when the user ID is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrNotAuthenticated is returned when no account context was supplied
	ErrNotAuthenticated = errors.New("no authenticated account context")

	// ErrProcessingTimeout is returned when payment processing exceeds its deadline
	ErrProcessingTimeout = errors.New("payment processing timed out")

	// ErrInvalidResource is returned when a purchase references no resource
	ErrInvalidResource = errors.New("resource reference is invalid")

	// ErrDuplicateTransaction is returned when an idempotency key was already used
	ErrDuplicateTransaction = errors.New("transaction with this idempotency key already exists")

	// ErrAmountOverflow is returned when the amount would overflow the balance counter
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrTransactionNotRefundable is returned when refunding anything but a paid purchase
	ErrTransactionNotRefundable = errors.New("transaction cannot be refunded")

	// ErrFileNotFound is returned when the requested vault file doesn't exist
	ErrFileNotFound = errors.New("vault file not found")

	// ErrNotOwner is returned when a vault mutation comes from a non-owner
	ErrNotOwner = errors.New("caller is not the owner of this file")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateAccount is returned when creating an account that already exists
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAccountLocked is returned when an account is locked by another operation
	ErrAccountLocked = errors.New("account is locked by another operation")

	// ErrStorage is returned for storage failures; the operation is aborted
	// with no partial mutation
	ErrStorage = errors.New("storage error")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAmountOverflow):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrNotAuthenticated):
		return CodeNotAuthenticated
	case errors.Is(err, ErrNotOwner):
		return CodeNotOwner
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrProcessingTimeout):
		return CodeProcessingTimeout
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrFileNotFound):
		return CodeFileNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAccountLocked):
		return CodeAccountLocked
	case errors.Is(err, ErrStorage):
		return CodeStorage
	default:
		return CodeInternalServer
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	UserID      string
	Amount      int64
	CurrBalance int64
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %s: required %d, available %d",
		e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID string, amount, currentBalance int64) error {
	return &InsufficientBalanceError{
		UserID:      userID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// LedgerError represents an error raised while applying a ledger operation
type LedgerError struct {
	UserID string
	Kind   string
	Amount int64
	Reason string
	Err    error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger operation %s failed for user %s (amount: %d): %s - %v",
		e.Kind, e.UserID, e.Amount, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "ledger_error",
		"user_id":    e.UserID,
		"kind":       e.Kind,
		"amount":     e.Amount,
		"reason":     e.Reason,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewLedgerError creates a detailed ledger error
func NewLedgerError(userID, kind string, amount int64, reason string, err error) error {
	return &LedgerError{
		UserID: userID,
		Kind:   kind,
		Amount: amount,
		Reason: reason,
		Err:    err,
	}
}

// DuplicateTransactionError provides detailed information about replayed submissions
type DuplicateTransactionError struct {
	IdempotencyKey string
	UserID         string
}

// NewDuplicateTransactionError creates a new DuplicateTransactionError
func NewDuplicateTransactionError(idempotencyKey, userID string) error {
	return &DuplicateTransactionError{
		IdempotencyKey: idempotencyKey,
		UserID:         userID,
	}
}

// Error implements the error interface
func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("duplicate transaction detected: idempotencyKey=%s for user %s",
		e.IdempotencyKey, e.UserID)
}

// Is checks if the target error is an ErrDuplicateTransaction
func (e *DuplicateTransactionError) Is(target error) bool {
	return target == ErrDuplicateTransaction
}

// LogFields returns a map of fields for structured logging
func (e *DuplicateTransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "duplicate_transaction",
		"idempotency_key": e.IdempotencyKey,
		"user_id":         e.UserID,
		"error_code":      CodeDuplicateTransaction,
	}
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsAccountNotFoundError checks if the error is an account not found error
func IsAccountNotFoundError(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrFileNotFound)
}

// IsProcessingTimeoutError checks if the error is a processing timeout
func IsProcessingTimeoutError(err error) bool {
	return errors.Is(err, ErrProcessingTimeout)
}

// IsAccountLockedError checks if the error is related to a locked account
func IsAccountLockedError(err error) bool {
	return errors.Is(err, ErrAccountLocked)
}

// IsStorageError checks if the error originated in the persistence layer
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
