// Package web assembles the gin engine: middleware, templates and routes.
package web

import (
	"embed"
	"html/template"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/forms"
	"github.com/yukikurage/task-manager/internal/handlers"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Services are the dependencies of the HTTP handlers.
type Services struct {
	Auth      *services.AuthService
	Positions *services.PositionService
	TaskTypes *services.TaskTypeService
	Tasks     *services.TaskService
	Comments  *services.CommentService
	Workers   *services.WorkerService
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templatesFS, "templates/*.html")
}

// NewRouter initializes Gin, registers middleware, templates and every route.
func NewRouter(svc Services, store sessions.Store) (*gin.Engine, error) {
	if err := locale.InitLocalizer(); err != nil {
		return nil, err
	}
	forms.Setup()

	tpl, err := Templates()
	if err != nil {
		return nil, err
	}

	r := gin.Default()
	r.SetHTMLTemplate(tpl)
	r.Use(
		gzip.Gzip(gzip.DefaultCompression),
		sessions.Sessions(constants.SessionCookieName, store),
		session.ApplyExpiry(),
		locale.LocalizerMiddleware(),
		middleware.LoadActor(svc.Auth),
	)

	index := handlers.NewIndexHandler()
	authHandler := handlers.NewAuthHandler(svc.Auth)
	positionHandler := handlers.NewPositionHandler(svc.Positions)
	taskTypeHandler := handlers.NewTaskTypeHandler(svc.TaskTypes)
	taskHandler := handlers.NewTaskHandler(svc.Tasks, svc.TaskTypes, svc.Workers)
	commentHandler := handlers.NewCommentHandler(svc.Comments)
	workerHandler := handlers.NewWorkerHandler(svc.Workers, svc.Positions, svc.Tasks)

	// Public routes
	r.GET("/", index.Root)
	r.GET("/welcome/", index.Welcome)
	r.GET("/health", index.Health)

	accounts := r.Group("/accounts")
	{
		accounts.GET("/login/", authHandler.LoginPage)
		accounts.POST("/login/", authHandler.Login)
		accounts.POST("/logout/", authHandler.Logout)
	}

	r.GET("/workers/create/", workerHandler.CreateWorkerPage)
	r.POST("/workers/create/", workerHandler.CreateWorker)
	r.GET("/media/avatars/:name", workerHandler.ServeAvatar)

	// Everything else requires a session
	protected := r.Group("/", middleware.RequireAuth())
	editor := middleware.RequireEditor()

	positions := protected.Group("/positions")
	{
		positions.GET("/", positionHandler.ListPositions)
		positions.GET("/create/", editor, positionHandler.CreatePositionPage)
		positions.POST("/create/", editor, positionHandler.CreatePosition)
		positions.GET("/:id", positionHandler.GetPosition)
		positions.GET("/:id/update/", editor, positionHandler.UpdatePositionPage)
		positions.POST("/:id/update/", editor, positionHandler.UpdatePosition)
		positions.GET("/:id/delete/", editor, positionHandler.DeletePositionPage)
		positions.POST("/:id/delete/", editor, positionHandler.DeletePosition)
	}

	taskTypes := protected.Group("/task-types")
	{
		taskTypes.GET("/", taskTypeHandler.ListTaskTypes)
		taskTypes.GET("/create/", editor, taskTypeHandler.CreateTaskTypePage)
		taskTypes.POST("/create/", editor, taskTypeHandler.CreateTaskType)
		taskTypes.GET("/:id", taskTypeHandler.GetTaskType)
		taskTypes.GET("/:id/update/", editor, taskTypeHandler.UpdateTaskTypePage)
		taskTypes.POST("/:id/update/", editor, taskTypeHandler.UpdateTaskType)
		taskTypes.GET("/:id/delete/", editor, taskTypeHandler.DeleteTaskTypePage)
		taskTypes.POST("/:id/delete/", editor, taskTypeHandler.DeleteTaskType)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.GET("/", taskHandler.ListTasks)
		tasks.GET("/create/", editor, taskHandler.CreateTaskPage)
		tasks.POST("/create/", editor, taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.GET("/:id/update/", editor, taskHandler.UpdateTaskPage)
		tasks.POST("/:id/update/", editor, taskHandler.UpdateTask)
		tasks.GET("/:id/delete/", editor, taskHandler.DeleteTaskPage)
		tasks.POST("/:id/delete/", editor, taskHandler.DeleteTask)
		tasks.POST("/:id/assign-remove/", taskHandler.ToggleAssignment)
		tasks.GET("/:id/comments/", commentHandler.ListComments)
		tasks.POST("/:id/comments/", commentHandler.AddComment)
	}
	protected.POST("/comment/delete/:id/", commentHandler.DeleteComment)

	workers := protected.Group("/workers")
	{
		workers.GET("/", workerHandler.ListWorkers)
		workers.GET("/:id/", workerHandler.GetWorker)
		workers.GET("/:id/update/", editor, workerHandler.UpdateWorkerPage)
		workers.POST("/:id/update/", editor, workerHandler.UpdateWorker)
		workers.GET("/:id/delete/", editor, workerHandler.DeleteWorkerPage)
		workers.POST("/:id/delete/", editor, workerHandler.DeleteWorker)
		workers.GET("/:id/avatar/", workerHandler.UploadAvatarPage)
		workers.POST("/:id/avatar/", workerHandler.UploadAvatar)
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "")
	})

	return r, nil
}
