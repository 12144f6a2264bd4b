package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todo-list-api/internal/errors"
	"github.com/yukikurage/todo-list-api/internal/middleware"
)

// requireUserID reads the authenticated user and aborts with 401 when absent.
func requireUserID(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// parseID reads the :id path parameter and aborts with 400 when malformed.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
