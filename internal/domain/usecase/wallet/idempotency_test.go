package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/mock"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	mockpersistence "github.com/drdoublecheck/wallet-ledger/mocks/port/persistence"
)

func TestIdempotencyHandler_EmptyKeySkipsCheck(t *testing.T) {
	mockRepo := new(mockpersistence.MockTransactionRepository)
	handler := NewIdempotencyHandler(mockRepo)

	txn, found, err := handler.CheckIdempotency(context.Background(), "")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, txn)
	mockRepo.AssertNotCalled(t, "ExistsByIdempotencyKey", mock.Anything, mock.Anything)
}

func TestIdempotencyHandler_KeyNotUsed(t *testing.T) {
	mockRepo := new(mockpersistence.MockTransactionRepository)
	mockRepo.On("ExistsByIdempotencyKey", mock.Anything, "fresh-key").Return(false, nil)

	handler := NewIdempotencyHandler(mockRepo)
	txn, found, err := handler.CheckIdempotency(context.Background(), "fresh-key")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, txn)
	mockRepo.AssertExpectations(t)
}

func TestIdempotencyHandler_KeyAlreadyUsed(t *testing.T) {
	existing := &entity.Transaction{ID: "tx-001", UserID: "patient-001", IdempotencyKey: "used-key"}

	mockRepo := new(mockpersistence.MockTransactionRepository)
	mockRepo.On("ExistsByIdempotencyKey", mock.Anything, "used-key").Return(true, nil)
	mockRepo.On("GetByIdempotencyKey", mock.Anything, "used-key").Return(existing, nil)

	handler := NewIdempotencyHandler(mockRepo)
	txn, found, err := handler.CheckIdempotency(context.Background(), "used-key")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, existing, txn)
	mockRepo.AssertExpectations(t)
}

func TestIdempotencyHandler_EntryVanishedBetweenCheckAndFetch(t *testing.T) {
	mockRepo := new(mockpersistence.MockTransactionRepository)
	mockRepo.On("ExistsByIdempotencyKey", mock.Anything, "racing-key").Return(true, nil)
	mockRepo.On("GetByIdempotencyKey", mock.Anything, "racing-key").Return(nil, errs.ErrTransactionNotFound)

	handler := NewIdempotencyHandler(mockRepo)
	txn, found, err := handler.CheckIdempotency(context.Background(), "racing-key")

	assert.NoError(t, err)
	assert.False(t, found, "a vanished entry is treated as an unused key")
	assert.Nil(t, txn)
}

func TestIdempotencyHandler_StorageError(t *testing.T) {
	mockRepo := new(mockpersistence.MockTransactionRepository)
	mockRepo.On("ExistsByIdempotencyKey", mock.Anything, "any-key").Return(false, errors.New("connection refused"))

	handler := NewIdempotencyHandler(mockRepo)
	_, found, err := handler.CheckIdempotency(context.Background(), "any-key")

	assert.Error(t, err)
	assert.False(t, found)
}
