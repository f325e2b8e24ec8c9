package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/utils"
)

// ListFilter holds the free-text query and page of a listing screen.
type ListFilter struct {
	Query  string
	Params utils.PaginationParams
}

// PositionRepository defines the interface for position data access
type PositionRepository interface {
	// Create creates a new position
	Create(ctx context.Context, position *models.Position) error

	// FindByID finds a position by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Position, error)

	// List returns positions whose name contains the query, with worker counts
	List(ctx context.Context, filter ListFilter) ([]models.Position, int64, error)

	// All returns every position ordered by name
	All(ctx context.Context) ([]models.Position, error)

	// Update updates a position
	Update(ctx context.Context, position *models.Position) error

	// Delete deletes a position together with its workers and returns the
	// avatar names those workers held
	Delete(ctx context.Context, id uint64) ([]string, error)
}

// TaskTypeRepository defines the interface for task type data access
type TaskTypeRepository interface {
	Create(ctx context.Context, taskType *models.TaskType) error
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.TaskType, error)
	List(ctx context.Context, filter ListFilter) ([]models.TaskType, int64, error)
	All(ctx context.Context) ([]models.TaskType, error)
	Update(ctx context.Context, taskType *models.TaskType) error

	// Delete deletes a task type together with its tasks
	Delete(ctx context.Context, id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and its initial assignments in one transaction
	Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// FindWithCommentCount finds a task and annotates its comment count
	FindWithCommentCount(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter ListFilter) ([]models.Task, int64, error)

	// ListByWorker returns the tasks a worker is assigned to
	ListByWorker(ctx context.Context, workerID uint64) ([]models.Task, error)

	// Update updates a task and replaces its assignments
	Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// Delete deletes a task with its comments and assignments
	Delete(ctx context.Context, id uint64) error

	// ToggleAssignment assigns the worker if absent, otherwise removes them.
	// It reports whether the worker is assigned afterwards.
	ToggleAssignment(ctx context.Context, taskID, workerID uint64) (bool, error)

	// FindAssignment finds a specific task assignment
	FindAssignment(ctx context.Context, taskID, workerID uint64) (*models.TaskAssignment, error)
}

// WorkerRepository defines the interface for worker and account data access
type WorkerRepository interface {
	// Create creates the user and its worker record within a single transaction
	Create(ctx context.Context, user *models.User, worker *models.Worker) error

	// FindByID finds a worker by ID with its user and position
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Worker, error)

	// FindUserByUsername finds the account for a username
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UsernameTaken reports whether another account already uses username
	UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error)

	// List returns workers whose username contains the query
	List(ctx context.Context, filter ListFilter) ([]models.Worker, int64, error)

	// All returns every worker ordered by username
	All(ctx context.Context) ([]models.Worker, error)

	// CountByIDs counts how many of the given worker IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)

	// Update writes the editable profile fields of the worker and its user
	Update(ctx context.Context, worker *models.Worker) error

	// SetAvatar stores a new avatar key for the worker
	SetAvatar(ctx context.Context, id uint64, avatar string) error

	// TouchLastLogin records a successful login
	TouchLastLogin(ctx context.Context, id uint64, at time.Time) error

	// Delete deletes a worker, its account, comments and assignments
	Delete(ctx context.Context, id uint64) error
}

// CommentaryRepository defines the interface for comment data access
type CommentaryRepository interface {
	Create(ctx context.Context, comment *models.Commentary) error
	FindByID(ctx context.Context, id uint64) (*models.Commentary, error)

	// ListByTask returns a task's comments newest first
	ListByTask(ctx context.Context, taskID uint64, params utils.PaginationParams) ([]models.Commentary, int64, error)

	Delete(ctx context.Context, id uint64) error
}
