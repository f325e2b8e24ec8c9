package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/session"
	"github.com/yukikurage/task-manager/internal/storage"
	"github.com/yukikurage/task-manager/internal/web"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel))

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	avatars, err := storage.New(context.Background(), cfg)
	if err != nil {
		logger.Fatalf("Failed to open avatar storage: %v", err)
	}

	store, err := session.NewStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to create session store: %v", err)
	}

	db := database.GetDB()
	positionRepo := repository.NewPositionRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	commentRepo := repository.NewCommentaryRepository(db)

	r, err := web.NewRouter(web.Services{
		Auth:      services.NewAuthService(workerRepo),
		Positions: services.NewPositionService(positionRepo, avatars),
		TaskTypes: services.NewTaskTypeService(taskTypeRepo),
		Tasks:     services.NewTaskService(taskRepo, taskTypeRepo, workerRepo),
		Comments:  services.NewCommentService(commentRepo, taskRepo),
		Workers:   services.NewWorkerService(workerRepo, positionRepo, avatars),
	}, store)
	if err != nil {
		logger.Fatalf("Failed to build router: %v", err)
	}

	// Start server
	logger.Infof("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
