// Package ordering computes the display order of tasks within a list.
package ordering

import (
	"slices"
	"time"

	"github.com/yukikurage/todo-list-api/internal/models"
)

const unknownBucket = 3

var statusBucket = map[models.TaskStatus]int{
	models.TaskStatusOngoing:    0,
	models.TaskStatusUnassigned: 1,
	models.TaskStatusDone:       2,
}

// Bucket returns the sort bucket of a status. Unknown statuses sort last.
func Bucket(s models.TaskStatus) int {
	if b, ok := statusBucket[s]; ok {
		return b
	}
	return unknownBucket
}

// Tasks returns a copy of tasks ordered by status bucket, then by due date
// ascending with missing due dates last. Ties keep their input order.
func Tasks(tasks []models.Task) []models.Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}

// Compare orders two tasks the way Tasks does.
func Compare(a, b models.Task) int {
	if ba, bb := Bucket(a.Status), Bucket(b.Status); ba != bb {
		return ba - bb
	}
	return compareDue(a.DueDate, b.DueDate)
}

func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
