package repository

import (
	"context"

	"github.com/yukikurage/todo-list-api/internal/database"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/ordering"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	*Gateway[models.Task]
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{
		Gateway: NewGateway[models.Task](db, ErrTaskNotFound),
	}
}

// ListByListOrdered loads the list's tasks in insertion order and sorts them in
// memory so every driver yields the same order.
func (r *GormTaskRepository) ListByListOrdered(ctx context.Context, listID uint64) ([]models.Task, error) {
	tasks, err := r.List(ctx, database.InList(listID))
	if err != nil {
		return nil, err
	}
	return ordering.Tasks(tasks), nil
}
