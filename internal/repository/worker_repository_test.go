package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/utils"
)

func TestWorkerRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	f := fixtures{t, db}
	repo := NewWorkerRepository(db)
	ctx := context.Background()

	pos := f.position("Developer")
	user := &models.User{Username: "alice", FirstName: "Alice", LastName: "Smith"}
	require.NoError(t, user.SetPassword("s3cret-pass"))
	worker := &models.Worker{PositionID: pos.ID}

	require.NoError(t, repo.Create(ctx, user, worker))
	assert.Equal(t, user.ID, worker.UserID)

	found, err := repo.FindByID(ctx, worker.UserID, "Position")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.User.Username)
	assert.Equal(t, "Developer", found.Position.Name)
	assert.True(t, found.User.CheckPassword("s3cret-pass"))

	byName, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestWorkerRepository_CreateDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	f := fixtures{t, db}
	repo := NewWorkerRepository(db)
	ctx := context.Background()

	pos := f.position("Developer")
	f.worker("alice", pos.ID)

	err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "x"}, &models.Worker{PositionID: pos.ID})
	assert.ErrorIs(t, err, ErrCreateUser)
	assert.Equal(t, int64(1), f.count(&models.User{}))
}

func TestWorkerRepository_UsernameTaken(t *testing.T) {
	db := newTestDB(t)
	f := fixtures{t, db}
	repo := NewWorkerRepository(db)
	ctx := context.Background()

	alice := f.worker("alice", f.position("Developer").ID)

	taken, err := repo.UsernameTaken(ctx, "alice", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.UsernameTaken(ctx, "alice", alice.UserID)
	require.NoError(t, err)
	assert.False(t, taken, "a worker keeping their own name is not a clash")
}

func TestWorkerRepository_ListPagesByUsername(t *testing.T) {
	db := newTestDB(t)
	f := fixtures{t, db}
	repo := NewWorkerRepository(db)
	ctx := context.Background()

	pos := f.position("Developer")
	names := []string{"judy", "ivan", "heidi", "grace", "frank", "erin", "dave", "carol", "bob", "alice"}
	for _, name := range names {
		f.worker(name, pos.ID)
	}

	page, total, err := repo.List(ctx, ListFilter{Params: utils.NewPaginationParams(1, 8)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	require.Len(t, page, 8)
	assert.Equal(t, "alice", page[0].User.Username)
	assert.Equal(t, "heidi", page[7].User.Username)
	assert.Equal(t, "Developer", page[0].Position.Name)

	filtered, total, err := repo.List(ctx, ListFilter{Query: "AL", Params: utils.NewPaginationParams(1, 8)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "alice", filtered[0].User.Username)
}

func TestWorkerRepository_UpdateKeepsPassword(t *testing.T) {
	db := newTestDB(t)
	f := fixtures{t, db}
	repo := NewWorkerRepository(db)
	ctx := context.Background()

	dev := f.position("Developer")
	qa := f.position("QA")
	user := &models.User{Username: "alice"}
	require.NoError(t, user.SetPassword("original-pass"))
	worker := &models.Worker{PositionID: dev.ID}
	require.NoError(t, repo.Create(ctx, user, worker))

	worker.User.Username = "alice2"
	worker.User.Email = "alice@example.com"
	worker.User.PasswordHash = ""
	worker.PositionID = qa.ID
	require.NoError(t, repo.Update(ctx, worker))

	loaded, err := repo.FindByID(ctx, worker.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", loaded.User.Username)
	assert.Equal(t, "alice@example.com", loaded.User.Email)
	assert.Equal(t, qa.ID, loaded.PositionID)
	assert.True(t, loaded.User.CheckPassword("original-pass"))
}

func TestWorkerRepository_SetAvatarAndTouchLastLogin(t *testing.T) {
	db := newTestDB(t)
	f := fixtures{t, db}
	repo := NewWorkerRepository(db)
	ctx := context.Background()

	alice := f.worker("alice", f.position("Developer").ID)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SetAvatar(ctx, alice.UserID, "avatars/abc.jpg"))
	require.NoError(t, repo.TouchLastLogin(ctx, alice.UserID, at))

	loaded, err := repo.FindByID(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "avatars/abc.jpg", loaded.Avatar)
	require.NotNil(t, loaded.User.LastLogin)
	assert.True(t, loaded.User.LastLogin.Equal(at))
}

func TestWorkerRepository_DeleteRemovesAccountAndActivity(t *testing.T) {
	db := newTestDB(t)
	f := fixtures{t, db}
	repo := NewWorkerRepository(db)
	ctx := context.Background()

	pos := f.position("Developer")
	alice := f.worker("alice", pos.ID)
	bob := f.worker("bob", pos.ID)
	task := f.task("Crash", f.taskType("Bug").ID, time.Now())
	f.assign(task.ID, alice.UserID)
	f.assign(task.ID, bob.UserID)
	f.comment(alice.UserID, task.ID, "mine")
	f.comment(bob.UserID, task.ID, "bob's")

	require.NoError(t, repo.Delete(ctx, alice.UserID))

	assert.Equal(t, int64(0), f.count(&models.User{}, "id = ?", alice.UserID))
	assert.Equal(t, int64(1), f.count(&models.Commentary{}))
	assert.Equal(t, int64(1), f.count(&models.TaskAssignment{}))
	assert.Equal(t, int64(1), f.count(&models.Task{}))

	n, err := repo.CountByIDs(ctx, []uint64{alice.UserID, bob.UserID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
