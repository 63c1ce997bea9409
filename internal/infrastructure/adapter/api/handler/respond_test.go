package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/logger"
)

func TestStatusForError(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"invalid amount", domainerr.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid resource", domainerr.ErrInvalidResource, http.StatusBadRequest},
		{"not refundable", domainerr.ErrTransactionNotRefundable, http.StatusBadRequest},
		{"not authenticated", domainerr.ErrNotAuthenticated, http.StatusUnauthorized},
		{"insufficient balance", domainerr.ErrInsufficientBalance, http.StatusPaymentRequired},
		{"insufficient balance detailed", domainerr.NewInsufficientBalanceError("patient-001", 1000, 700), http.StatusPaymentRequired},
		{"not owner", domainerr.ErrNotOwner, http.StatusForbidden},
		{"account not found", domainerr.ErrAccountNotFound, http.StatusNotFound},
		{"transaction not found", domainerr.ErrTransactionNotFound, http.StatusNotFound},
		{"file not found", domainerr.ErrFileNotFound, http.StatusNotFound},
		{"duplicate transaction", domainerr.NewDuplicateTransactionError("key", "patient-001"), http.StatusConflict},
		{"account locked", domainerr.ErrAccountLocked, http.StatusLocked},
		{"processing timeout", domainerr.ErrProcessingTimeout, http.StatusGatewayTimeout},
		{"wrapped timeout", fmt.Errorf("purchase failed: %w", domainerr.ErrProcessingTimeout), http.StatusGatewayTimeout},
		{"storage", domainerr.ErrStorage, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, statusForError(tc.err))
		})
	}
}

func TestRespondError_HidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/wallet/balance", nil)

	respondError(c, logger.NewNoopLogger(), errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Message, "internal failure details must not reach the client")
	assert.Equal(t, domainerr.CodeInternalServer, resp.Code)
}

func TestRespondError_ClientErrorKeepsMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/wallet/purchase", nil)

	respondError(c, logger.NewNoopLogger(), domainerr.NewInsufficientBalanceError("patient-001", 1000, 700))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domainerr.CodeInsufficientBalance, resp.Code)
	assert.Contains(t, resp.Message, "patient-001")
}
