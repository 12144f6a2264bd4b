package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/todo-list-api/internal/authz"
	"github.com/yukikurage/todo-list-api/internal/fault"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/repository"
	"go.uber.org/zap"
)

var ErrListIDRequired = fault.Validation("listId is required")

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	listRepo repository.ListRepository
	log      *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, listRepo repository.ListRepository, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		listRepo: listRepo,
		log:      log,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	DueDate     *time.Time
	ListID      uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
	ListID       *uint64
}

// CreateTask creates a task in a list owned by the actor. The task owner is
// taken from the list.
func (s *TaskService) CreateTask(ctx context.Context, actorID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.ListID == 0 {
		return nil, ErrListIDRequired
	}

	list, err := s.listRepo.FindByID(ctx, input.ListID)
	if err != nil {
		return nil, classify(err, "failed to find list")
	}
	if err := authz.Authorize(actorID, *list); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusUnassigned
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		DueDate:     input.DueDate,
		ListID:      list.ID,
		UserID:      list.UserID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, classify(err, "failed to create task")
	}

	return task, nil
}

// UpdateTask updates a task the actor owns. Moving it is allowed only into
// another list the actor owns.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.ownedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ListID != nil && *input.ListID != task.ListID {
		dest, err := s.listRepo.FindByID(ctx, *input.ListID)
		if err != nil {
			return nil, classify(err, "failed to find list")
		}
		if err := authz.Authorize(actorID, *dest); err != nil {
			return nil, err
		}
		task.ListID = dest.ID
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, classify(err, "failed to update task")
	}

	return task, nil
}

// DeleteTask deletes a task the actor owns
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	if _, err := s.ownedTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}

	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return nil, classify(err, "failed to delete task")
	}

	s.log.Debug("task deleted", zap.Uint64("task_id", taskID), zap.Uint64("user_id", actorID))
	return deleted, nil
}

// ownedTask loads a task with its parent list and checks ownership through the
// list.
func (s *TaskService) ownedTask(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, classify(err, "failed to find task")
	}

	parent, err := s.listRepo.FindByID(ctx, task.ListID)
	if err != nil {
		if fault.KindOf(err) == fault.KindNotFound {
			return nil, fault.Internal(fmt.Errorf("task %d references missing list %d", task.ID, task.ListID))
		}
		return nil, classify(err, "failed to find list")
	}

	if err := authz.AuthorizeTask(actorID, *task, *parent); err != nil {
		return nil, err
	}
	return task, nil
}
