package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskTypeRepository is a GORM implementation of TaskTypeRepository
type GormTaskTypeRepository struct {
	db *gorm.DB
}

// NewTaskTypeRepository creates a new TaskTypeRepository
func NewTaskTypeRepository(db *gorm.DB) TaskTypeRepository {
	return &GormTaskTypeRepository{db: db}
}

func (r *GormTaskTypeRepository) Create(ctx context.Context, taskType *models.TaskType) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(taskType).Error
}

func (r *GormTaskTypeRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.TaskType, error) {
	var taskType models.TaskType
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		if p == "Tasks" {
			query = query.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
				return db.Order("name ASC, deadline DESC, id ASC")
			})
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&taskType, id).Error; err != nil {
		return nil, err
	}
	return &taskType, nil
}

func (r *GormTaskTypeRepository) List(ctx context.Context, filter ListFilter) ([]models.TaskType, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.TaskType{}).
			Scopes(database.Contains("task_types.name", filter.Query))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var taskTypes []models.TaskType
	err := base().
		Select("task_types.*, (SELECT COUNT(*) FROM tasks WHERE tasks.task_type_id = task_types.id) AS tasks_count").
		Order("task_types.name").
		Order("task_types.id").
		Scopes(database.Paginate(filter.Params)).
		Find(&taskTypes).Error
	if err != nil {
		return nil, 0, err
	}

	return taskTypes, total, nil
}

func (r *GormTaskTypeRepository) All(ctx context.Context) ([]models.TaskType, error) {
	var taskTypes []models.TaskType
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&taskTypes).Error; err != nil {
		return nil, err
	}
	return taskTypes, nil
}

func (r *GormTaskTypeRepository) Update(ctx context.Context, taskType *models.TaskType) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(taskType).Error
}

// Delete deletes a task type and all of its tasks in a transaction
func (r *GormTaskTypeRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("task_type_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if err := deleteTasks(tx, taskIDs); err != nil {
			return err
		}

		return tx.Delete(&models.TaskType{}, id).Error
	})
}
