package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/todo-list-api/internal/database"
	"github.com/yukikurage/todo-list-api/internal/models"
	"gorm.io/gorm"
)

// GormListRepository is a GORM implementation of ListRepository
type GormListRepository struct {
	*Gateway[models.List]
	db *gorm.DB
}

// NewListRepository creates a new ListRepository
func NewListRepository(db *gorm.DB) ListRepository {
	return &GormListRepository{
		Gateway: NewGateway[models.List](db, ErrListNotFound),
		db:      db,
	}
}

// ListByUser lists every list owned by a user
func (r *GormListRepository) ListByUser(ctx context.Context, userID uint64) ([]models.List, error) {
	return r.List(ctx, database.OwnedBy(userID))
}

// Delete deletes the list and its tasks in a transaction
func (r *GormListRepository) Delete(ctx context.Context, id uint64) (*models.List, error) {
	var deleted *models.List
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.InList(id)).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}

		list, err := r.Gateway.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}

		deleted = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
