package models

import (
	"time"
)

type Priority string

const (
	PriorityUrgent Priority = "Urgent"
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the choices in display order.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	Priority    Priority  `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	TaskTypeID  uint64    `gorm:"not null;index" json:"task_type_id"`

	// CommentCount is filled by the comment thread query only.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count,omitempty"`

	// Relations
	TaskType    TaskType         `gorm:"foreignKey:TaskTypeID;constraint:OnDelete:CASCADE" json:"task_type,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// Assignees returns the workers of the preloaded assignments.
func (t *Task) Assignees() []Worker {
	workers := make([]Worker, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		workers = append(workers, a.Worker)
	}
	return workers
}
