package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusOngoing    TaskStatus = "ongoing"
	TaskStatusUnassigned TaskStatus = "unassigned"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the accepted statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOngoing, TaskStatusUnassigned, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(30);not null" json:"title" validate:"required,max=30"`
	Description string     `gorm:"type:varchar(200)" json:"description" validate:"max=200"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'unassigned'" json:"status" validate:"required,oneof=ongoing unassigned done"`
	DueDate     *time.Time `json:"dueDate"`
	ListID      uint64     `gorm:"not null;index" json:"listId" validate:"required"`
	UserID      uint64     `gorm:"not null;index" json:"userId" validate:"required"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t Task) PrimaryKey() uint64 { return t.ID }

func (t Task) OwnerID() uint64 { return t.UserID }

func (t Task) UniqueConstraints() []UniqueConstraint { return nil }
