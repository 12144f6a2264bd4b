package services

import (
	"context"
	"strings"

	"github.com/yukikurage/todo-list-api/internal/authz"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/repository"
	"go.uber.org/zap"
)

// ListService handles list business logic
type ListService struct {
	listRepo repository.ListRepository
	taskRepo repository.TaskRepository
	log      *zap.Logger
}

// NewListService creates a new ListService
func NewListService(listRepo repository.ListRepository, taskRepo repository.TaskRepository, log *zap.Logger) *ListService {
	return &ListService{
		listRepo: listRepo,
		taskRepo: taskRepo,
		log:      log,
	}
}

// GetUserLists returns every list owned by the actor
func (s *ListService) GetUserLists(ctx context.Context, actorID uint64) ([]models.List, error) {
	lists, err := s.listRepo.ListByUser(ctx, actorID)
	if err != nil {
		return nil, classify(err, "failed to list lists")
	}
	return lists, nil
}

// GetListTasks returns the tasks of an owned list in display order
func (s *ListService) GetListTasks(ctx context.Context, actorID, listID uint64) ([]models.Task, error) {
	if _, err := s.ownedList(ctx, actorID, listID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByListOrdered(ctx, listID)
	if err != nil {
		return nil, classify(err, "failed to list tasks")
	}
	return tasks, nil
}

// CreateList creates a list owned by the actor
func (s *ListService) CreateList(ctx context.Context, actorID uint64, title string) (*models.List, error) {
	list := &models.List{
		Title:  strings.TrimSpace(title),
		UserID: actorID,
	}

	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, classify(err, "failed to create list")
	}
	return list, nil
}

// UpdateList renames an owned list
func (s *ListService) UpdateList(ctx context.Context, actorID, listID uint64, title string) (*models.List, error) {
	list, err := s.ownedList(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}

	list.Title = strings.TrimSpace(title)

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, classify(err, "failed to update list")
	}
	return list, nil
}

// DeleteList deletes an owned list and its tasks
func (s *ListService) DeleteList(ctx context.Context, actorID, listID uint64) (*models.List, error) {
	if _, err := s.ownedList(ctx, actorID, listID); err != nil {
		return nil, err
	}

	deleted, err := s.listRepo.Delete(ctx, listID)
	if err != nil {
		return nil, classify(err, "failed to delete list")
	}

	s.log.Debug("list deleted", zap.Uint64("list_id", listID), zap.Uint64("user_id", actorID))
	return deleted, nil
}

// ownedList loads a list and checks that the actor owns it. A missing list is
// reported before ownership is checked.
func (s *ListService) ownedList(ctx context.Context, actorID, listID uint64) (*models.List, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, classify(err, "failed to find list")
	}

	if err := authz.Authorize(actorID, *list); err != nil {
		return nil, err
	}
	return list, nil
}
