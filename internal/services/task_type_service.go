package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/utils"
	"gorm.io/gorm"
)

var ErrTaskTypeNotFound = errors.New("task type not found")

type TaskTypeService struct {
	taskTypeRepo repository.TaskTypeRepository
}

func NewTaskTypeService(taskTypeRepo repository.TaskTypeRepository) *TaskTypeService {
	return &TaskTypeService{taskTypeRepo: taskTypeRepo}
}

type TaskTypeInput struct {
	Name string
}

func (in TaskTypeInput) validate() error {
	v := &ValidationError{}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		v.add("name", locale.T("form.required"))
	case len(name) > constants.MaxNameLength:
		v.add("name", locale.T("form.max", fmt.Sprintf("Param==%d", constants.MaxNameLength)))
	}
	return v.orNil()
}

func (s *TaskTypeService) List(ctx context.Context, input ListInput) (*Listing[models.TaskType], error) {
	params := utils.NewPaginationParams(input.Page, constants.TaskTypePageSize)
	taskTypes, total, err := s.taskTypeRepo.List(ctx, repository.ListFilter{Query: input.Query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}

	return &Listing[models.TaskType]{
		Items: taskTypes,
		Page:  utils.NewPage(params, total),
		Query: input.Query,
	}, nil
}

func (s *TaskTypeService) All(ctx context.Context) ([]models.TaskType, error) {
	taskTypes, err := s.taskTypeRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return taskTypes, nil
}

// Get returns a task type with its tasks.
func (s *TaskTypeService) Get(ctx context.Context, id uint64) (*models.TaskType, error) {
	return s.find(ctx, id, "Tasks")
}

func (s *TaskTypeService) find(ctx context.Context, id uint64, preload ...string) (*models.TaskType, error) {
	taskType, err := s.taskTypeRepo.FindByID(ctx, id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskTypeNotFound
		}
		return nil, fmt.Errorf("failed to find task type: %w", err)
	}
	return taskType, nil
}

func (s *TaskTypeService) Create(ctx context.Context, input TaskTypeInput) (*models.TaskType, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	taskType := &models.TaskType{Name: strings.TrimSpace(input.Name)}
	if err := s.taskTypeRepo.Create(ctx, taskType); err != nil {
		return nil, fmt.Errorf("failed to create task type: %w", err)
	}
	return taskType, nil
}

func (s *TaskTypeService) Update(ctx context.Context, id uint64, input TaskTypeInput) (*models.TaskType, error) {
	taskType, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	taskType.Name = strings.TrimSpace(input.Name)
	if err := s.taskTypeRepo.Update(ctx, taskType); err != nil {
		return nil, fmt.Errorf("failed to update task type: %w", err)
	}
	return taskType, nil
}

// Delete removes the task type and all of its tasks.
func (s *TaskTypeService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	if err := s.taskTypeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task type: %w", err)
	}

	logger.Infof("task type %d deleted with its tasks", id)
	return nil
}
