package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentaryRepository is a GORM implementation of CommentaryRepository
type GormCommentaryRepository struct {
	db *gorm.DB
}

// NewCommentaryRepository creates a new CommentaryRepository
func NewCommentaryRepository(db *gorm.DB) CommentaryRepository {
	return &GormCommentaryRepository{db: db}
}

func (r *GormCommentaryRepository) Create(ctx context.Context, comment *models.Commentary) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *GormCommentaryRepository) FindByID(ctx context.Context, id uint64) (*models.Commentary, error) {
	var comment models.Commentary
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask returns a page of the task's comments, newest first
func (r *GormCommentaryRepository) ListByTask(ctx context.Context, taskID uint64, params utils.PaginationParams) ([]models.Commentary, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Commentary{}).
			Where("task_id = ?", taskID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Commentary
	err := base().
		Preload("Author.User").
		Order("created_time DESC").
		Order("id DESC").
		Scopes(database.Paginate(params)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *GormCommentaryRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Commentary{}, id).Error
}
