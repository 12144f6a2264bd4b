package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/todo-list-api/internal/database"
	"github.com/yukikurage/todo-list-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	*Gateway[models.User]
	db    *gorm.DB
	lists *Gateway[models.List]
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateDefaultList is returned when creating the default list fails inside the signup transaction.
	ErrCreateDefaultList = errors.New("user repository: create default list failed")
	// ErrResetTokenConsumed is returned when the reset token was already used, replaced or expired.
	ErrResetTokenConsumed = errors.New("user repository: reset token no longer valid")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{
		Gateway: NewGateway[models.User](db, ErrUserNotFound),
		db:      db,
		lists:   NewGateway[models.List](db, ErrListNotFound),
	}
}

// CreateWithDefaultList creates the user and the list atomically. Neither row
// survives if either insert fails.
func (r *GormUserRepository) CreateWithDefaultList(ctx context.Context, user *models.User, list *models.List) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.Gateway.WithTx(tx).Create(ctx, user); err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		list.UserID = user.ID

		if err := r.lists.WithTx(tx).Create(ctx, list); err != nil {
			return fmt.Errorf("%w: %w", ErrCreateDefaultList, err)
		}

		return nil
	})
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByResetTokenHash finds the user holding a reset token digest
func (r *GormUserRepository) FindByResetTokenHash(ctx context.Context, digest string) (*models.User, error) {
	return r.findOne(ctx, "reset_token_hash = ?", digest)
}

// ConsumeResetToken swaps in the new password hash with a conditional update,
// so two resets racing on the same token cannot both succeed.
func (r *GormUserRepository) ConsumeResetToken(ctx context.Context, id uint64, digest, passwordHash string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND reset_token_hash = ? AND reset_token_expires_at > ?", id, digest, now).
		Updates(map[string]any{
			"password_hash":          passwordHash,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResetTokenConsumed
	}
	return nil
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes the user's tasks, then lists, then the user in one transaction.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) (*models.User, error) {
	var deleted *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.OwnedBy(id)).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}

		if err := tx.Scopes(database.OwnedBy(id)).Delete(&models.List{}).Error; err != nil {
			return fmt.Errorf("failed to delete lists: %w", err)
		}

		user, err := r.Gateway.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}

		deleted = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
