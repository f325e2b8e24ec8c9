package handlers_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/session"
	"github.com/yukikurage/task-manager/internal/storage"
	"github.com/yukikurage/task-manager/internal/web"
	"gorm.io/gorm"
)

const testPassword = "sup3r-secret"

type testApp struct {
	ctx    context.Context
	db     *gorm.DB
	svc    web.Services
	router *gin.Engine
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(database.OpenSQLite(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.MigrateDatabase(db))

	avatars, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	positionRepo := repository.NewPositionRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	commentRepo := repository.NewCommentaryRepository(db)

	svc := web.Services{
		Auth:      services.NewAuthService(workerRepo),
		Positions: services.NewPositionService(positionRepo, avatars),
		TaskTypes: services.NewTaskTypeService(taskTypeRepo),
		Tasks:     services.NewTaskService(taskRepo, taskTypeRepo, workerRepo),
		Comments:  services.NewCommentService(commentRepo, taskRepo),
		Workers:   services.NewWorkerService(workerRepo, positionRepo, avatars),
	}

	session.SetPolicy(session.Policy{BrowserMaxAge: constants.BrowserSessionMaxAge})
	store := cookie.NewStore([]byte("test-secret"))
	store.Options(session.StoreOptions())

	router, err := web.NewRouter(svc, store)
	require.NoError(t, err)

	return &testApp{
		ctx:    context.Background(),
		db:     db,
		svc:    svc,
		router: router,
	}
}

func (app *testApp) position(t *testing.T, name string) *models.Position {
	t.Helper()
	p, err := app.svc.Positions.Create(app.ctx, services.PositionInput{Name: name})
	require.NoError(t, err)
	return p
}

func (app *testApp) worker(t *testing.T, username string, positionID uint64) *models.Worker {
	t.Helper()
	w, err := app.svc.Workers.Register(app.ctx, services.RegisterInput{
		ProfileInput: services.ProfileInput{
			Username:   username,
			FirstName:  "First",
			LastName:   "Last",
			Email:      username + "@example.com",
			PositionID: positionID,
		},
		Password1: testPassword,
		Password2: testPassword,
	})
	require.NoError(t, err)
	return w
}

func actorFor(w *models.Worker) authz.Actor {
	return authz.Actor{ID: w.UserID, Username: w.User.Username}
}

func (app *testApp) promote(t *testing.T, w *models.Worker) {
	t.Helper()
	require.NoError(t, app.db.Model(&models.User{}).Where("id = ?", w.UserID).Update("is_superuser", true).Error)
}

func (app *testApp) task(t *testing.T, name string) *models.Task {
	t.Helper()
	tt, err := app.svc.TaskTypes.Create(app.ctx, services.TaskTypeInput{Name: "Type for " + name})
	require.NoError(t, err)
	task, err := app.svc.Tasks.CreateTask(app.ctx, services.TaskInput{
		Name:        name,
		Description: "details",
		Deadline:    time.Now().Add(time.Hour),
		TaskTypeID:  tt.ID,
	})
	require.NoError(t, err)
	return task
}

// client is a browser stand-in that keeps the cookies between requests.
type client struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (app *testApp) client(t *testing.T) *client {
	return &client{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

// loggedIn returns a client with a session for username.
func (app *testApp) loggedIn(t *testing.T, username string) *client {
	t.Helper()
	c := app.client(t)
	w := c.post("/accounts/login/", url.Values{"username": {username}, "password": {testPassword}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	return c
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

// upload posts a multipart form with an optional "avatar" file.
func (c *client) upload(path string, form url.Values, avatar []byte) *httptest.ResponseRecorder {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for key, values := range form {
		for _, v := range values {
			require.NoError(c.t, mw.WriteField(key, v))
		}
	}
	if avatar != nil {
		fw, err := mw.CreateFormFile("avatar", "avatar.png")
		require.NoError(c.t, err)
		_, err = fw.Write(avatar)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req)
}

func (c *client) sessionCookie() *http.Cookie {
	return c.cookies[constants.SessionCookieName]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	return buf.Bytes()
}

func location(w *httptest.ResponseRecorder) string {
	return w.Header().Get("Location")
}
