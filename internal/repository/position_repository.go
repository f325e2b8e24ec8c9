package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPositionRepository is a GORM implementation of PositionRepository
type GormPositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new PositionRepository
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &GormPositionRepository{db: db}
}

// Create creates a new position
func (r *GormPositionRepository) Create(ctx context.Context, position *models.Position) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(position).Error
}

// FindByID finds a position by ID with optional preloading
func (r *GormPositionRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Position, error) {
	var position models.Position
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		if p == "Workers" {
			query = query.Preload("Workers", func(db *gorm.DB) *gorm.DB {
				return db.Joins("JOIN users ON users.id = workers.user_id").Order("users.username")
			}).Preload("Workers.User")
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// List returns positions whose name contains the query, with worker counts
func (r *GormPositionRepository) List(ctx context.Context, filter ListFilter) ([]models.Position, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Position{}).
			Scopes(database.Contains("positions.name", filter.Query))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var positions []models.Position
	err := base().
		Select("positions.*, (SELECT COUNT(*) FROM workers WHERE workers.position_id = positions.id) AS worker_count").
		Order("positions.name").
		Order("positions.id").
		Scopes(database.Paginate(filter.Params)).
		Find(&positions).Error
	if err != nil {
		return nil, 0, err
	}

	return positions, total, nil
}

// All returns every position ordered by name
func (r *GormPositionRepository) All(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// Update updates a position
func (r *GormPositionRepository) Update(ctx context.Context, position *models.Position) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(position).Error
}

// Delete deletes a position and all of its workers in a transaction.
// The returned avatar names are only valid once the transaction committed.
func (r *GormPositionRepository) Delete(ctx context.Context, id uint64) ([]string, error) {
	var avatars []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workers []models.Worker
		if err := tx.Select("user_id", "avatar").Where("position_id = ?", id).Find(&workers).Error; err != nil {
			return err
		}

		workerIDs := make([]uint64, 0, len(workers))
		for _, w := range workers {
			workerIDs = append(workerIDs, w.UserID)
			if w.Avatar != "" {
				avatars = append(avatars, w.Avatar)
			}
		}

		if err := deleteWorkers(tx, workerIDs); err != nil {
			return err
		}

		return tx.Delete(&models.Position{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return avatars, nil
}
