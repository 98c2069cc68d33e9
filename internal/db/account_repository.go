package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/flowbit/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateAccount is returned by Create when the email or handle is
// already taken at insert time. Callers outside this package can detect it
// through its Duplicate method.
var ErrDuplicateAccount error = duplicateAccountError{}

type duplicateAccountError struct{}

func (duplicateAccountError) Error() string { return "duplicate account" }
func (duplicateAccountError) Duplicate() bool { return true }

// AccountRepository reads and writes the accounts table. Lookups are exact,
// case-sensitive matches; a missing row yields (nil, nil).
type AccountRepository struct {
	database *gorm.DB
}

func NewAccountRepository(database *gorm.DB) *AccountRepository {
	return &AccountRepository{database: database}
}

func (repo *AccountRepository) FindByID(ctx context.Context, accountID uint) (*models.Account, error) {
	return repo.first(repo.database.WithContext(ctx).Where("id = ?", accountID))
}

func (repo *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return repo.first(repo.database.WithContext(ctx).Where("email = ?", email))
}

func (repo *AccountRepository) FindByHandle(ctx context.Context, handle string) (*models.Account, error) {
	return repo.first(repo.database.WithContext(ctx).Where("handle = ?", handle))
}

func (repo *AccountRepository) FindByEmailOrHandle(ctx context.Context, email string, handle string) (*models.Account, error) {
	return repo.first(repo.database.WithContext(ctx).Where("email = ? OR handle = ?", email, handle))
}

func (repo *AccountRepository) first(query *gorm.DB) (*models.Account, error) {
	var account models.Account
	err := query.Order("id ASC").First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (repo *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	err := repo.database.WithContext(ctx).Create(account).Error
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	return err
}

func (repo *AccountRepository) UpdateLockoutState(ctx context.Context, accountID uint, failedAttempts int, lastFailedAt time.Time) error {
	return repo.database.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"failed_attempts": failedAttempts,
			"last_failed_at":  lastFailedAt,
		}).Error
}

func (repo *AccountRepository) UpdatePasswordHash(ctx context.Context, accountID uint, passwordHash string) error {
	return repo.database.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("password_hash", passwordHash).Error
}

// ClearLockout drops the failure counter and timestamp. It is used by the
// admin unlock command, never by the login flow.
func (repo *AccountRepository) ClearLockout(ctx context.Context, accountID uint) error {
	return repo.database.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"failed_attempts": 0,
			"last_failed_at":  nil,
		}).Error
}

// isUniqueViolation matches the translated gorm error and the raw sqlite message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
