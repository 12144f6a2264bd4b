package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-list-api/internal/dto"
	apierrors "github.com/yukikurage/todo-list-api/internal/errors"
	"github.com/yukikurage/todo-list-api/internal/services"
	"go.uber.org/zap"
)

type ListHandler struct {
	listService *services.ListService
	log         *zap.Logger
}

func NewListHandler(listService *services.ListService, log *zap.Logger) *ListHandler {
	return &ListHandler{
		listService: listService,
		log:         log,
	}
}

type listRequest struct {
	Title string `json:"title"`
}

// GetUserLists returns every list owned by the current user
func (h *ListHandler) GetUserLists(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lists, err := h.listService.GetUserLists(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListDTOs(lists))
}

// GetListTasks returns the tasks of a list in display order
func (h *ListHandler) GetListTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	listID, ok := parseID(c)
	if !ok {
		return
	}

	tasks, err := h.listService.GetListTasks(c.Request.Context(), userID, listID)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateList creates a new list
func (h *ListHandler) CreateList(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.listService.CreateList(c.Request.Context(), userID, req.Title)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListDTO(*list))
}

// UpdateList renames a list
func (h *ListHandler) UpdateList(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	listID, ok := parseID(c)
	if !ok {
		return
	}

	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.listService.UpdateList(c.Request.Context(), userID, listID, req.Title)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListDTO(*list))
}

// DeleteList deletes a list and its tasks
func (h *ListHandler) DeleteList(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	listID, ok := parseID(c)
	if !ok {
		return
	}

	list, err := h.listService.DeleteList(c.Request.Context(), userID, listID)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListDTO(*list))
}
