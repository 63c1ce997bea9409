package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrAmountOverflow),
		errors.Is(err, domainerr.ErrInvalidResource),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrTransactionNotRefundable),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domainerr.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, domainerr.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domainerr.ErrAccountNotFound),
		errors.Is(err, domainerr.ErrTransactionNotFound),
		errors.Is(err, domainerr.ErrFileNotFound),
		errors.Is(err, domainerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrDuplicateTransaction),
		errors.Is(err, domainerr.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrAccountLocked):
		return http.StatusLocked
	case errors.Is(err, domainerr.ErrProcessingTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a standardized error response for a domain error
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	status := statusForError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Don't leak internals to the client
		message = "Internal server error"
		logger.Error("Request failed", map[string]any{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		})
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}
