// Package authz decides whether an authenticated user may act on a list or task.
// Callers check existence first and only then ownership, so a missing entity is
// reported as not found and a foreign one as forbidden.
package authz

import (
	"github.com/yukikurage/todo-list-api/internal/fault"
	"github.com/yukikurage/todo-list-api/internal/models"
)

var (
	ErrListForbidden = fault.Forbidden("You do not have permission to access this list")
	ErrTaskForbidden = fault.Forbidden("You do not have permission to access this task")
)

// Authorize fails with a forbidden error unless actorID owns entity.
func Authorize(actorID uint64, entity models.Owned) error {
	if actorID == 0 || entity.OwnerID() != actorID {
		if _, ok := entity.(models.Task); ok {
			return ErrTaskForbidden
		}
		return ErrListForbidden
	}
	return nil
}

// AuthorizeTask checks a task through its parent list: the actor must own the
// list, and the task owner must still equal the list owner.
func AuthorizeTask(actorID uint64, task models.Task, parent models.List) error {
	if err := Authorize(actorID, parent); err != nil {
		return ErrTaskForbidden
	}
	if task.ListID != parent.ID || task.UserID != parent.UserID {
		return ErrTaskForbidden
	}
	return nil
}
