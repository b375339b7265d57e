package repositories

import (
	"context"
	"errors"
	"log"

	"lumbung/internal/models"
	"lumbung/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache cache.UserCache
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, cache cache.UserCache) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		log.Printf("Failed to create user %s: %v", user.Email, err)
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := r.cache.GetUser(ctx, id); ok {
		return user, nil
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheUser(ctx, &user); err != nil {
		log.Printf("Failed to cache user %d: %v", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) UpdateBankDetails(ctx context.Context, id uint, bank models.BankDetails) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"bank_name":      bank.BankName,
		"bank_account":   bank.BankAccount,
		"account_holder": bank.AccountHolder,
	})
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.refresh(ctx, id)
	return nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.refresh(ctx, id)
	return nil
}

// refresh overwrites the cached copy with the row just written. A newer
// entry outranks any stale copy a concurrent GetByID tries to store.
func (r *userRepository) refresh(ctx context.Context, id uint) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err == nil {
		if err := r.cache.CacheUser(ctx, &user); err == nil {
			return
		}
	}
	r.invalidate(ctx, id)
}

func (r *userRepository) invalidate(ctx context.Context, id uint) {
	if err := r.cache.InvalidateUser(ctx, id); err != nil {
		log.Printf("Warning: Failed to invalidate user cache: %v", err)
	}
}
