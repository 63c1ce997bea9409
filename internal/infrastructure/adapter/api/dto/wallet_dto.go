package dto

import (
	"time"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

// TopUpRequest represents the API request for adding funds to the wallet
type TopUpRequest struct {
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	Description    string `json:"description"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// PurchaseRequest represents the API request for buying a priced resource
type PurchaseRequest struct {
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	Description    string `json:"description"`
	ResourceKind   string `json:"resourceKind" binding:"required,oneof=recording chat"`
	ResourceID     string `json:"resourceId" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// RefundRequest represents the API request for refunding a paid purchase
type RefundRequest struct {
	Description string `json:"description"`
}

// TransactionResponse represents one ledger entry in API responses
type TransactionResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Kind          string     `json:"kind"`
	Amount        int64      `json:"amount"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	ResourceKind  string     `json:"resourceKind,omitempty"`
	ResourceID    string     `json:"resourceId,omitempty"`
	RefundOf      string     `json:"refundOf,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	ResultBalance int64      `json:"resultBalance"`
}

// NewTransactionResponse maps a ledger entry entity to its API representation
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		Kind:          string(t.Kind),
		Amount:        t.Amount,
		Description:   t.Description,
		Status:        string(t.Status),
		ResourceKind:  string(t.Resource.Kind),
		ResourceID:    t.Resource.ID,
		RefundOf:      t.RefundOf,
		CreatedAt:     t.CreatedAt,
		ProcessedAt:   t.ProcessedAt,
		ResultBalance: t.ResultBalance,
	}
}

// BalanceResponse represents the API response for a wallet balance
type BalanceResponse struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
}

// CanAffordResponse represents the API response for an affordability check
type CanAffordResponse struct {
	UserID    string `json:"userId"`
	Amount    int64  `json:"amount"`
	CanAfford bool   `json:"canAfford"`
}

// HistoryResponse represents the API response for a wallet's ledger history
type HistoryResponse struct {
	UserID       string                `json:"userId"`
	Transactions []TransactionResponse `json:"transactions"`
}
