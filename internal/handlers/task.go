package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-list-api/internal/dto"
	apierrors "github.com/yukikurage/todo-list-api/internal/errors"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/services"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// CreateTask creates a new task in one of the current user's lists
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		DueDate     *dto.DueDate      `json:"dueDate"`
		ListID      uint64            `json:"listId"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate.Ptr(),
		ListID:      req.ListID,
	})
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task. Only provided fields change; set
// clearDueDate to remove the due date.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title        *string            `json:"title"`
		Description  *string            `json:"description"`
		Status       *models.TaskStatus `json:"status"`
		DueDate      *dto.DueDate       `json:"dueDate"`
		ClearDueDate bool               `json:"clearDueDate"`
		ListID       *uint64            `json:"listId"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, taskID, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		DueDate:      req.DueDate.Ptr(),
		ClearDueDate: req.ClearDueDate,
		ListID:       req.ListID,
	})
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}
