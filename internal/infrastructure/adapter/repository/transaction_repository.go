package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	errs "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	var idempotencyKey *string
	if transaction.IdempotencyKey != "" {
		key := transaction.IdempotencyKey
		idempotencyKey = &key
	}

	return model.Transaction{
		ID:             transaction.ID,
		UserID:         transaction.UserID,
		Kind:           string(transaction.Kind),
		Amount:         transaction.Amount,
		Description:    transaction.Description,
		Status:         string(transaction.Status),
		IdempotencyKey: idempotencyKey,
		ResourceKind:   string(transaction.Resource.Kind),
		ResourceID:     transaction.Resource.ID,
		RefundOf:       transaction.RefundOf,
		CreatedAt:      transaction.CreatedAt,
		ProcessedAt:    transaction.ProcessedAt,
		ResultBalance:  transaction.ResultBalance,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(transactionModel *model.Transaction) *entity.Transaction {
	var idempotencyKey string
	if transactionModel.IdempotencyKey != nil {
		idempotencyKey = *transactionModel.IdempotencyKey
	}

	return &entity.Transaction{
		ID:             transactionModel.ID,
		UserID:         transactionModel.UserID,
		Kind:           entity.TransactionKind(transactionModel.Kind),
		Amount:         transactionModel.Amount,
		Description:    transactionModel.Description,
		Status:         entity.TransactionStatus(transactionModel.Status),
		IdempotencyKey: idempotencyKey,
		Resource: entity.ResourceRef{
			Kind: entity.ResourceKind(transactionModel.ResourceKind),
			ID:   transactionModel.ResourceID,
		},
		RefundOf:      transactionModel.RefundOf,
		CreatedAt:     transactionModel.CreatedAt,
		ProcessedAt:   transactionModel.ProcessedAt,
		ResultBalance: transactionModel.ResultBalance,
	}
}

// Create appends a new ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating ledger entry", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"kind":           transaction.Kind,
	})

	transactionModel := r.entityToModel(transaction)

	result := r.db.WithContext(ctx).Create(&transactionModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate ledger entry detected", map[string]any{
				"transaction_id":  transaction.ID,
				"user_id":         transaction.UserID,
				"idempotency_key": transaction.IdempotencyKey,
			})
			return errs.NewDuplicateTransactionError(transaction.IdempotencyKey, transaction.UserID)
		}

		r.logger.Error("Failed to create ledger entry", map[string]any{
			"transaction_id": transaction.ID,
			"user_id":        transaction.UserID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	r.logger.Info("Ledger entry created", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"kind":           transaction.Kind,
		"amount":         transaction.Amount,
	})
	return nil
}

// GetByID retrieves a ledger entry by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.logger.Debug("Getting ledger entry by ID", map[string]any{
		"transaction_id": id,
	})

	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Warn("Ledger entry not found", map[string]any{
				"transaction_id": id,
			})
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get ledger entry", map[string]any{
			"transaction_id": id,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// GetByIdempotencyKey retrieves the entry created under a client-supplied key
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	r.logger.Debug("Getting ledger entry by idempotency key", map[string]any{
		"idempotency_key": key,
	})

	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get ledger entry by idempotency key", map[string]any{
			"idempotency_key": key,
			"error":           result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// ExistsByIdempotencyKey checks whether an idempotency key was already used
func (r *TransactionRepository) ExistsByIdempotencyKey(ctx context.Context, key string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("idempotency_key = ?", key).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("Failed to check idempotency key existence", map[string]any{
			"idempotency_key": key,
			"error":           result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return count > 0, nil
}

// ListByUser returns the user's ledger entries, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	r.logger.Debug("Listing ledger entries", map[string]any{
		"user_id": userID,
	})

	var transactionModels []model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactionModels)

	if result.Error != nil {
		r.logger.Error("Failed to list ledger entries", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(transactionModels))
	for i := range transactionModels {
		transactions = append(transactions, r.modelToEntity(&transactionModels[i]))
	}

	return transactions, nil
}
