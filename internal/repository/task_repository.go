package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const taskOrder = "tasks.name ASC, tasks.deadline DESC, tasks.id ASC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its initial assignments
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return assign(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindWithCommentCount finds a task and counts its comments in the same query
func (r *GormTaskRepository) FindWithCommentCount(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("tasks.*, (SELECT COUNT(*) FROM commentaries WHERE commentaries.task_id = tasks.id) AS comment_count").
		Where("tasks.id = ?", id).
		Take(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter ListFilter) ([]models.Task, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Task{}).
			Scopes(database.Contains("tasks.name", filter.Query))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := base().
		Preload("TaskType").
		Order(taskOrder).
		Scopes(database.Paginate(filter.Params)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByWorker returns the tasks a worker is assigned to
func (r *GormTaskRepository) ListByWorker(ctx context.Context, workerID uint64) ([]models.Task, error) {
	assigned := r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.worker_id = ?", workerID)

	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("TaskType").
		Where("EXISTS (?)", assigned).
		Order(taskOrder).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves the task fields and replaces the assignment set
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return assign(tx, task.ID, assigneeIDs)
	})
}

// Delete deletes a task with its comments and assignments
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTasks(tx, []uint64{id})
	})
}

// ToggleAssignment removes the assignment when present, otherwise creates it
func (r *GormTaskRepository) ToggleAssignment(ctx context.Context, taskID, workerID uint64) (bool, error) {
	assigned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("task_id = ? AND worker_id = ?", taskID, workerID).
			Delete(&models.TaskAssignment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		assigned = true
		return assign(tx, taskID, []uint64{workerID})
	})
	if err != nil {
		return false, err
	}
	return assigned, nil
}

// FindAssignment finds a specific task assignment
func (r *GormTaskRepository) FindAssignment(ctx context.Context, taskID, workerID uint64) (*models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND worker_id = ?", taskID, workerID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// assign inserts assignment rows, ignoring ones that already exist
func assign(tx *gorm.DB, taskID uint64, workerIDs []uint64) error {
	if len(workerIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(workerIDs))
	for i, workerID := range workerIDs {
		assignments[i] = models.TaskAssignment{
			TaskID:   taskID,
			WorkerID: workerID,
		}
	}

	return tx.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignments).Error
}
