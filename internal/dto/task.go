package dto

import (
	"time"

	"github.com/yukikurage/todo-list-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"dueDate"`
	ListID      uint64            `json:"listId"`
	UserID      uint64            `json:"userId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ListDTO represents a list in API responses
type ListDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	UserID    uint64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		ListID:      task.ListID,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts tasks keeping their order. The result is never nil so it
// encodes as an empty JSON array.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToListDTO converts a List model to ListDTO
func ToListDTO(list models.List) ListDTO {
	return ListDTO{
		ID:        list.ID,
		Title:     list.Title,
		UserID:    list.UserID,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}

// ToListDTOs converts lists keeping their order
func ToListDTOs(lists []models.List) []ListDTO {
	dtos := make([]ListDTO, len(lists))
	for i, list := range lists {
		dtos[i] = ToListDTO(list)
	}
	return dtos
}
