package repository

import (
	"context"
	"time"

	"github.com/yukikurage/todo-list-api/internal/fault"
	"github.com/yukikurage/todo-list-api/internal/models"
)

var (
	ErrUserNotFound = fault.NotFound("User not found")
	ErrListNotFound = fault.NotFound("List not found")
	ErrTaskNotFound = fault.NotFound("Task not found")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// CreateWithDefaultList creates a user and their default list within a
	// single transaction.
	CreateWithDefaultList(ctx context.Context, user *models.User, list *models.List) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email. It returns nil, nil when no user has it.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByResetTokenHash finds the user holding a reset token digest.
	// It returns nil, nil when no user holds it.
	FindByResetTokenHash(ctx context.Context, digest string) (*models.User, error)

	// Update writes a loaded user back
	Update(ctx context.Context, user *models.User) error

	// ConsumeResetToken stores a new password hash and clears the reset token,
	// but only while the user still holds the unexpired digest. It returns
	// ErrResetTokenConsumed when no row matched.
	ConsumeResetToken(ctx context.Context, id uint64, digest, passwordHash string, now time.Time) error

	// Delete deletes a user together with all their lists and tasks
	Delete(ctx context.Context, id uint64) (*models.User, error)
}

// ListRepository defines the interface for list data access
type ListRepository interface {
	// Create creates a new list
	Create(ctx context.Context, list *models.List) error

	// FindByID finds a list by ID
	FindByID(ctx context.Context, id uint64) (*models.List, error)

	// ListByUser lists every list owned by a user
	ListByUser(ctx context.Context, userID uint64) ([]models.List, error)

	// Update writes a loaded list back
	Update(ctx context.Context, list *models.List) error

	// Delete deletes a list and the tasks inside it
	Delete(ctx context.Context, id uint64) (*models.List, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// ListByListOrdered returns every task of a list in display order
	ListByListOrdered(ctx context.Context, listID uint64) ([]models.Task, error)

	// Update writes a loaded task back
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id uint64) (*models.Task, error)
}
