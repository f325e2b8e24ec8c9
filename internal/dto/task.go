package dto

import (
	"time"

	"github.com/yukikurage/task-manager/internal/models"
)

// TaskTypeDTO represents a task type in a dump
type TaskTypeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in a dump. Assignees travel separately as
// TaskAssignmentDTO rows.
type TaskDTO struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Deadline    time.Time       `json:"deadline"`
	IsCompleted bool            `json:"is_completed"`
	Priority    models.Priority `json:"priority"`
	TaskTypeID  uint64          `json:"task_type_id"`
}

// TaskAssignmentDTO represents a task assignment in a dump
type TaskAssignmentDTO struct {
	TaskID   uint64 `json:"task_id"`
	WorkerID uint64 `json:"worker_id"`
}

// CommentaryDTO represents a comment in a dump
type CommentaryDTO struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	TaskID      uint64    `json:"task_id"`
	CreatedTime time.Time `json:"created_time"`
	Content     string    `json:"content"`
}

// Conversion functions

// ToTaskTypeDTO converts a TaskType model to TaskTypeDTO
func ToTaskTypeDTO(taskType models.TaskType) TaskTypeDTO {
	return TaskTypeDTO{
		ID:   taskType.ID,
		Name: taskType.Name,
	}
}

func (d TaskTypeDTO) Model() models.TaskType {
	return models.TaskType{ID: d.ID, Name: d.Name}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Deadline:    task.Deadline,
		IsCompleted: task.IsCompleted,
		Priority:    task.Priority,
		TaskTypeID:  task.TaskTypeID,
	}
}

// Model converts the record back. A missing priority falls back to Medium.
func (d TaskDTO) Model() models.Task {
	priority := d.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	return models.Task{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Deadline:    d.Deadline,
		IsCompleted: d.IsCompleted,
		Priority:    priority,
		TaskTypeID:  d.TaskTypeID,
	}
}

// ToTaskAssignmentDTO converts a TaskAssignment model to TaskAssignmentDTO
func ToTaskAssignmentDTO(assignment models.TaskAssignment) TaskAssignmentDTO {
	return TaskAssignmentDTO{
		TaskID:   assignment.TaskID,
		WorkerID: assignment.WorkerID,
	}
}

func (d TaskAssignmentDTO) Model() models.TaskAssignment {
	return models.TaskAssignment{TaskID: d.TaskID, WorkerID: d.WorkerID}
}

// ToCommentaryDTO converts a Commentary model to CommentaryDTO
func ToCommentaryDTO(comment models.Commentary) CommentaryDTO {
	return CommentaryDTO{
		ID:          comment.ID,
		UserID:      comment.UserID,
		TaskID:      comment.TaskID,
		CreatedTime: comment.CreatedTime,
		Content:     comment.Content,
	}
}

func (d CommentaryDTO) Model() models.Commentary {
	return models.Commentary{
		ID:          d.ID,
		UserID:      d.UserID,
		TaskID:      d.TaskID,
		CreatedTime: d.CreatedTime,
		Content:     d.Content,
	}
}
