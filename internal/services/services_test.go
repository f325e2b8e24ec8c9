package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/storage"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	ctx       context.Context
	db        *gorm.DB
	mediaRoot string

	positions *PositionService
	taskTypes *TaskTypeService
	tasks     *TaskService
	comments  *CommentService
	workers   *WorkerService
	auth      *AuthService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
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

	mediaRoot := t.TempDir()
	avatars, err := storage.NewLocalStore(mediaRoot)
	require.NoError(t, err)

	positionRepo := repository.NewPositionRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	commentRepo := repository.NewCommentaryRepository(db)

	return serviceTestEnv{
		ctx:       context.Background(),
		db:        db,
		mediaRoot: mediaRoot,
		positions: NewPositionService(positionRepo, avatars),
		taskTypes: NewTaskTypeService(taskTypeRepo),
		tasks:     NewTaskService(taskRepo, taskTypeRepo, workerRepo),
		comments:  NewCommentService(commentRepo, taskRepo),
		workers:   NewWorkerService(workerRepo, positionRepo, avatars),
		auth:      NewAuthService(workerRepo),
	}
}

func (env serviceTestEnv) position(t *testing.T, name string) *models.Position {
	t.Helper()
	p, err := env.positions.Create(env.ctx, PositionInput{Name: name})
	require.NoError(t, err)
	return p
}

func (env serviceTestEnv) register(t *testing.T, username string, positionID uint64) *models.Worker {
	t.Helper()
	w, err := env.workers.Register(env.ctx, RegisterInput{
		ProfileInput: ProfileInput{
			Username:   username,
			FirstName:  "First",
			LastName:   "Last",
			Email:      username + "@example.com",
			PositionID: positionID,
		},
		Password1: "sup3r-secret",
		Password2: "sup3r-secret",
	})
	require.NoError(t, err)
	return w
}

func (env serviceTestEnv) task(t *testing.T, name string, assignees ...uint64) *models.Task {
	t.Helper()
	tt, err := env.taskTypes.Create(env.ctx, TaskTypeInput{Name: "Type for " + name})
	require.NoError(t, err)

	task, err := env.tasks.CreateTask(env.ctx, TaskInput{
		Name:        name,
		Description: "details",
		Deadline:    time.Now().Add(time.Hour),
		TaskTypeID:  tt.ID,
		AssigneeIDs: assignees,
	})
	require.NoError(t, err)
	return task
}

func (env serviceTestEnv) superuser(t *testing.T, w *models.Worker) authz.Actor {
	t.Helper()
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", w.UserID).Update("is_superuser", true).Error)
	actor, err := env.auth.Actor(env.ctx, w.UserID)
	require.NoError(t, err)
	return actor
}

func actorOf(w *models.Worker) authz.Actor {
	return authz.Actor{ID: w.UserID, Username: w.User.Username}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	return buf.Bytes()
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}
