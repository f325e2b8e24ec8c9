package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkerRepository is a GORM implementation of WorkerRepository
type GormWorkerRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating the account fails inside the registration transaction.
	ErrCreateUser = errors.New("worker repository: create user failed")
	// ErrCreateWorker is returned when creating the worker record fails inside the registration transaction.
	ErrCreateWorker = errors.New("worker repository: create worker failed")
)

// NewWorkerRepository creates a new WorkerRepository
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &GormWorkerRepository{db: db}
}

// Create creates a user and its worker record atomically.
func (r *GormWorkerRepository) Create(ctx context.Context, user *models.User, worker *models.Worker) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		worker.UserID = user.ID
		if err := tx.Omit(clause.Associations).Create(worker).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateWorker, err)
		}

		worker.User = *user
		return nil
	})
}

// FindByID finds a worker by ID; the user is always loaded
func (r *GormWorkerRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Worker, error) {
	var worker models.Worker
	query := r.db.WithContext(ctx).Preload("User")

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&worker, id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// FindUserByUsername finds a user by username
func (r *GormWorkerRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether a user other than excludeID owns username
func (r *GormWorkerRepository) UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

// List returns workers whose username contains the query
func (r *GormWorkerRepository) List(ctx context.Context, filter ListFilter) ([]models.Worker, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Worker{}).
			Joins("JOIN users ON users.id = workers.user_id").
			Scopes(database.Contains("users.username", filter.Query))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []models.Worker
	err := base().
		Select("workers.*").
		Preload("User").
		Preload("Position").
		Order("users.username").
		Scopes(database.Paginate(filter.Params)).
		Find(&workers).Error
	if err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

// All returns every worker ordered by username
func (r *GormWorkerRepository) All(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).
		Select("workers.*").
		Joins("JOIN users ON users.id = workers.user_id").
		Preload("User").
		Order("users.username").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

// CountByIDs counts how many of the given worker IDs exist
func (r *GormWorkerRepository) CountByIDs(ctx context.Context, ids []uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Worker{}).
		Where("user_id IN ?", ids).
		Count(&count).Error
	return count, err
}

// Update writes profile fields; the password hash is never touched here
func (r *GormWorkerRepository) Update(ctx context.Context, worker *models.Worker) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).
			Where("id = ?", worker.UserID).
			Updates(map[string]any{
				"username":   worker.User.Username,
				"first_name": worker.User.FirstName,
				"last_name":  worker.User.LastName,
				"email":      worker.User.Email,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Worker{}).
			Where("user_id = ?", worker.UserID).
			Updates(map[string]any{
				"position_id": worker.PositionID,
				"avatar":      worker.Avatar,
			}).Error
	})
}

// SetAvatar stores a new avatar key for the worker
func (r *GormWorkerRepository) SetAvatar(ctx context.Context, id uint64, avatar string) error {
	return r.db.WithContext(ctx).
		Model(&models.Worker{}).
		Where("user_id = ?", id).
		Update("avatar", avatar).Error
}

// TouchLastLogin records a successful login
func (r *GormWorkerRepository) TouchLastLogin(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// Delete deletes a worker with its account, comments and assignments
func (r *GormWorkerRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteWorkers(tx, []uint64{id})
	})
}
