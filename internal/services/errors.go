package services

import (
	"fmt"

	"github.com/yukikurage/todo-list-api/internal/fault"
)

// classify passes classified failures through and turns anything else into an
// internal failure that records what was being attempted.
func classify(err error, action string) error {
	if err == nil {
		return nil
	}
	if fault.KindOf(err) != fault.KindInternal {
		return err
	}
	return fault.Internal(fmt.Errorf("%s: %w", action, err))
}
