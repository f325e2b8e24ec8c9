package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/utils"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	taskTypeRepo repository.TaskTypeRepository
	workerRepo   repository.WorkerRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, taskTypeRepo repository.TaskTypeRepository, workerRepo repository.WorkerRepository) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		taskTypeRepo: taskTypeRepo,
		workerRepo:   workerRepo,
	}
}

// TaskInput represents the editable fields of a task
type TaskInput struct {
	Name        string
	Description string
	Deadline    time.Time
	IsCompleted bool
	Priority    models.Priority
	TaskTypeID  uint64
	AssigneeIDs []uint64
}

// validate checks the input against the database and normalizes it in place.
func (s *TaskService) validate(ctx context.Context, input *TaskInput) error {
	v := &ValidationError{}

	input.Name = strings.TrimSpace(input.Name)
	switch {
	case input.Name == "":
		v.add("name", locale.T("form.required"))
	case len(input.Name) > constants.MaxNameLength:
		v.add("name", locale.T("form.max", fmt.Sprintf("Param==%d", constants.MaxNameLength)))
	}
	if strings.TrimSpace(input.Description) == "" {
		v.add("description", locale.T("form.required"))
	}
	if input.Deadline.IsZero() {
		v.add("deadline", locale.T("form.required"))
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		v.add("priority", locale.T("form.choice"))
	}

	if _, err := s.taskTypeRepo.FindByID(ctx, input.TaskTypeID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find task type: %w", err)
		}
		v.add("task_type", locale.T("form.choice"))
	}

	input.AssigneeIDs = uniqueIDs(input.AssigneeIDs)
	if len(input.AssigneeIDs) > 0 {
		found, err := s.workerRepo.CountByIDs(ctx, input.AssigneeIDs)
		if err != nil {
			return fmt.Errorf("failed to check assignees: %w", err)
		}
		if found != int64(len(input.AssigneeIDs)) {
			v.add("assignees", locale.T("form.choice"))
		}
	}

	return v.orNil()
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// List returns a page of tasks whose name contains the query
func (s *TaskService) List(ctx context.Context, input ListInput) (*Listing[models.Task], error) {
	params := utils.NewPaginationParams(input.Page, constants.TaskPageSize)
	tasks, total, err := s.taskRepo.List(ctx, repository.ListFilter{Query: input.Query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &Listing[models.Task]{
		Items: tasks,
		Page:  utils.NewPage(params, total),
		Query: input.Query,
	}, nil
}

// GetTask returns a task with its type and assignees
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.find(ctx, taskID, "TaskType", "Assignments.Worker.User", "Assignments.Worker.Position")
}

func (s *TaskService) find(ctx context.Context, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// IsAssigned reports whether the worker is one of the task's assignees
func (s *TaskService) IsAssigned(ctx context.Context, taskID, workerID uint64) (bool, error) {
	if _, err := s.taskRepo.FindAssignment(ctx, taskID, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find assignment: %w", err)
	}
	return true, nil
}

// ListForWorker returns the tasks a worker is assigned to
func (s *TaskService) ListForWorker(ctx context.Context, workerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for worker: %w", err)
	}
	return tasks, nil
}

// CreateTask validates the input and creates the task with its assignees
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*models.Task, error) {
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		Deadline:    input.Deadline,
		IsCompleted: input.IsCompleted,
		Priority:    input.Priority,
		TaskTypeID:  input.TaskTypeID,
	}

	if err := s.taskRepo.Create(ctx, task, input.AssigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask replaces the task fields and its assignee set
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input TaskInput) (*models.Task, error) {
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	task.Name = input.Name
	task.Description = input.Description
	task.Deadline = input.Deadline
	task.IsCompleted = input.IsCompleted
	task.Priority = input.Priority
	task.TaskTypeID = input.TaskTypeID

	if err := s.taskRepo.Update(ctx, task, input.AssigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask deletes a task with its comments and assignments
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	if _, err := s.find(ctx, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ToggleAssignment adds the actor to the task's assignees, or removes them if
// already assigned. It reports whether the actor is assigned afterwards.
func (s *TaskService) ToggleAssignment(ctx context.Context, actor authz.Actor, taskID uint64) (bool, error) {
	if actor.IsAnonymous() {
		return false, ErrForbidden
	}
	if _, err := s.find(ctx, taskID); err != nil {
		return false, err
	}

	assigned, err := s.taskRepo.ToggleAssignment(ctx, taskID, actor.ID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle assignment: %w", err)
	}

	logger.Debugf("worker %d assigned=%t on task %d", actor.ID, assigned, taskID)
	return assigned, nil
}
