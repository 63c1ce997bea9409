package handler

import (
	"net/http"
	"strconv"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	domainerr "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/usecase"
	walletUseCase "github.com/drdoublecheck/wallet-ledger/internal/domain/usecase/wallet"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService  *walletUseCase.Service
	accountService usecase.AccountUseCase
	logger         coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(
	walletService *walletUseCase.Service,
	accountService usecase.AccountUseCase,
	logger coreport.Logger,
) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		accountService: accountService,
		logger:         logger,
	}
}

// GetBalance handles the GET /wallet/balance endpoint
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.UserID(c)

	// First authenticated touch of the wallet opens the account
	account, err := h.accountService.EnsureAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: account.Balance(),
	})
}

// CanAfford handles the GET /wallet/can-afford endpoint
func (h *WalletHandler) CanAfford(c *gin.Context) {
	userID := middleware.UserID(c)

	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidAmount),
			Message: "amount must be a positive integer",
		})
		return
	}

	if _, err := h.accountService.EnsureAccount(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	canAfford, err := h.walletService.CanAfford(c.Request.Context(), userID, amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.CanAffordResponse{
		UserID:    userID,
		Amount:    amount,
		CanAfford: canAfford,
	})
}

// GetHistory handles the GET /wallet/history endpoint
func (h *WalletHandler) GetHistory(c *gin.Context) {
	userID := middleware.UserID(c)

	if _, err := h.accountService.EnsureAccount(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	transactions, err := h.walletService.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, dto.NewTransactionResponse(t))
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		UserID:       userID,
		Transactions: responses,
	})
}

// TopUp handles the POST /wallet/topup endpoint
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid top-up request format", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	if _, err := h.accountService.EnsureAccount(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	transaction, err := h.walletService.TopUp(c.Request.Context(), userID, walletUseCase.TopUpRequest{
		Amount:         req.Amount,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(transaction))
}

// Purchase handles the POST /wallet/purchase endpoint
func (h *WalletHandler) Purchase(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid purchase request format", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	if _, err := h.accountService.EnsureAccount(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	transaction, err := h.walletService.Purchase(c.Request.Context(), userID, walletUseCase.PurchaseRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Resource: entity.ResourceRef{
			Kind: entity.ResourceKind(req.ResourceKind),
			ID:   req.ResourceID,
		},
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(transaction))
}

// Refund handles the POST /wallet/transactions/:transactionId/refund endpoint
func (h *WalletHandler) Refund(c *gin.Context) {
	userID := middleware.UserID(c)
	transactionID := c.Param("transactionId")

	transaction, err := h.walletService.Refund(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(transaction))
}
