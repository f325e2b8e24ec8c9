package repository

import (
	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
)

// deleteWorkers removes the workers, their accounts, comments and assignments.
// It must run inside a transaction.
func deleteWorkers(tx *gorm.DB, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	if err := tx.Where("user_id IN ?", ids).Delete(&models.Commentary{}).Error; err != nil {
		return err
	}
	if err := tx.Where("worker_id IN ?", ids).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id IN ?", ids).Delete(&models.Worker{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.User{}).Error
}

// deleteTasks removes the tasks with their comments and assignments.
// It must run inside a transaction.
func deleteTasks(tx *gorm.DB, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	if err := tx.Where("task_id IN ?", ids).Delete(&models.Commentary{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Task{}).Error
}
