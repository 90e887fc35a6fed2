package repositories

import (
	"MediPortal/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrAccountNotFound is returned when no account exists for an email.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository stores credentials. Accounts are never cached.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// EmailExists reports whether an account is already registered for the email.
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check account email: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new account row.
func (r *AccountRepository) Create(ctx context.Context, account models.Account) error {
	if err := r.db.WithContext(ctx).Create(&account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByEmail loads an account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// UpdatePassword replaces the stored password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
	if err != nil {
		return fmt.Errorf("failed to update account password: %w", err)
	}
	return nil
}
