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

// getOperationType returns "credit" for positive or zero changes and "debit" for negative changes
func getOperationType(balanceChange int64) string {
	if balanceChange >= 0 {
		return "credit"
	}
	return "debit"
}

// AccountRepository implements AccountRepository interface using GORM
type AccountRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *AccountRepository {
	return &AccountRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts an account model to an entity
func (r *AccountRepository) modelToEntity(accountModel *model.Account) (*entity.Account, error) {
	account, err := entity.NewAccount(accountModel.UserID, accountModel.Balance, r.timeProvider)
	if err != nil {
		r.logger.Error("Failed to create account entity", map[string]any{
			"user_id": accountModel.UserID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: failed to create account entity: %s", errs.ErrInternalServer, err.Error())
	}

	account.CreatedAt = accountModel.CreatedAt
	account.UpdatedAt = accountModel.UpdatedAt
	account.TransactionCount = accountModel.TransactionCount

	return account, nil
}

// handleDatabaseError standardizes database error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error, userID string) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("Account not found", map[string]any{
			"user_id": userID,
		})
		return errs.ErrAccountNotFound
	}

	if r.errorClassifier.IsDuplicateKeyError(err) {
		r.logger.Warn("Duplicate account operation", map[string]any{
			"user_id": userID,
		})
		return errs.ErrDuplicateAccount
	}

	if r.errorClassifier.IsLockError(err) {
		r.logger.Warn("Account is locked by another operation", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return errs.ErrAccountLocked
	}

	return fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
}

// GetByID retrieves an account by user ID
func (r *AccountRepository) GetByID(ctx context.Context, userID string) (*entity.Account, error) {
	r.logger.Debug("Getting account by user ID", map[string]any{
		"user_id": userID,
	})

	var accountModel model.Account
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&accountModel)

	if result.Error != nil {
		return nil, r.handleDatabaseError("getting account", result.Error, userID)
	}

	account, err := r.modelToEntity(&accountModel)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Account retrieved successfully", map[string]any{
		"user_id":  userID,
		"balance":  account.Balance(),
		"tx_count": account.TransactionCount,
	})

	return account, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	r.logger.Debug("Creating new account", map[string]any{
		"user_id": account.UserID,
		"balance": account.Balance(),
	})

	accountModel := model.Account{
		UserID:           account.UserID,
		Balance:          account.Balance(),
		CreatedAt:        account.CreatedAt,
		UpdatedAt:        account.UpdatedAt,
		TransactionCount: account.TransactionCount,
	}

	result := r.db.WithContext(ctx).Create(&accountModel)

	if result.Error != nil {
		return r.handleDatabaseError("creating account", result.Error, account.UserID)
	}

	r.logger.Info("Account created successfully", map[string]any{
		"user_id": account.UserID,
		"balance": account.Balance(),
	})
	return nil
}

// ApplyBalanceChange applies a signed change to the materialized balance under
// an exclusive row lock. The caller is expected to run it inside a unit of
// work so the counter update and the ledger append commit together.
func (r *AccountRepository) ApplyBalanceChange(ctx context.Context, userID string, change int64) (*entity.Account, error) {
	r.logger.Debug("Applying balance change", map[string]any{
		"user_id":        userID,
		"change":         change,
		"operation_type": getOperationType(change),
	})

	// Lock the account row with FOR UPDATE. A concurrent operation on the
	// same account blocks here and re-reads the post-change balance before
	// its own overdraft check.
	var accountModel model.Account
	result := r.db.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("user_id = ?", userID).
		First(&accountModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Warn("Account not found during balance change", map[string]any{
				"user_id": userID,
			})
			return nil, errs.ErrAccountNotFound
		}
		if r.errorClassifier.IsLockError(result.Error) {
			r.logger.Warn("Account is locked by another operation", map[string]any{
				"user_id": userID,
				"error":   result.Error.Error(),
			})
			return nil, errs.ErrAccountLocked
		}
		r.logger.Error("Database error when locking account", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	newBalance := accountModel.Balance + change

	if newBalance < 0 {
		r.logger.Warn("Insufficient balance for operation", map[string]any{
			"user_id":          userID,
			"current_balance":  accountModel.Balance,
			"requested_change": change,
			"operation_type":   "debit",
		})
		return nil, errs.NewInsufficientBalanceError(userID, -change, accountModel.Balance)
	}

	accountModel.TransactionCount++
	accountModel.Balance = newBalance
	accountModel.UpdatedAt = r.timeProvider.Now()

	result = r.db.WithContext(ctx).Model(&model.Account{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":           accountModel.Balance,
			"updated_at":        accountModel.UpdatedAt,
			"transaction_count": accountModel.TransactionCount,
		})

	if result.Error != nil {
		r.logger.Error("Failed to update account balance", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		if r.errorClassifier.IsLockError(result.Error) {
			return nil, errs.ErrAccountLocked
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	account, err := r.modelToEntity(&accountModel)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Balance change applied", map[string]any{
		"user_id":        userID,
		"change":         change,
		"new_balance":    account.Balance(),
		"operation_type": getOperationType(change),
		"tx_count":       account.TransactionCount,
	})

	return account, nil
}
