package database

import (
	"fmt"

	"github.com/yukikurage/task-manager/internal/logger"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes the list screens sort and filter on.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Listing order
		{"positions", "idx_positions_name", "name"},
		{"task_types", "idx_task_types_name", "name"},
		{"tasks", "idx_tasks_name_deadline", "name, deadline"},

		// Comment thread, newest first
		{"commentaries", "idx_commentaries_task_created", "task_id, created_time"},

		// Reverse lookup of a worker's tasks
		{"task_assignments", "idx_task_assignments_worker_id", "worker_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			logger.Debugf("Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Infof("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs schema migration and index creation against db.
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
