package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(database.OpenSQLite(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	return db
}

type fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func (f fixtures) position(name string) *models.Position {
	p := &models.Position{Name: name}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}

func (f fixtures) worker(username string, positionID uint64) *models.Worker {
	user := &models.User{Username: username, PasswordHash: "hash"}
	require.NoError(f.t, f.db.Create(user).Error)

	w := &models.Worker{UserID: user.ID, PositionID: positionID}
	require.NoError(f.t, f.db.Omit("User", "Position").Create(w).Error)
	w.User = *user
	return w
}

func (f fixtures) taskType(name string) *models.TaskType {
	tt := &models.TaskType{Name: name}
	require.NoError(f.t, f.db.Create(tt).Error)
	return tt
}

func (f fixtures) task(name string, taskTypeID uint64, deadline time.Time) *models.Task {
	task := &models.Task{
		Name:        name,
		Description: "description of " + name,
		Deadline:    deadline,
		Priority:    models.PriorityMedium,
		TaskTypeID:  taskTypeID,
	}
	require.NoError(f.t, f.db.Omit("TaskType").Create(task).Error)
	return task
}

func (f fixtures) assign(taskID, workerID uint64) {
	require.NoError(f.t, f.db.Create(&models.TaskAssignment{TaskID: taskID, WorkerID: workerID}).Error)
}

func (f fixtures) comment(userID, taskID uint64, content string) *models.Commentary {
	c := &models.Commentary{UserID: userID, TaskID: taskID, Content: content}
	require.NoError(f.t, f.db.Omit("Author", "Task").Create(c).Error)
	return c
}

func (f fixtures) count(model any, where ...any) int64 {
	var n int64
	q := f.db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}
