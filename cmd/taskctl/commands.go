package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/dto"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/services"
	"github.com/yukikurage/task-manager/internal/storage"
	"github.com/yukikurage/task-manager/internal/transfer"
)

// connect loads the configuration and opens the migrated database.
func connect() (*config.Config, error) {
	cfg := config.Load()
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel))

	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, err
	}
	return cfg, nil
}

func migrateDb() error {
	if _, err := connect(); err != nil {
		return err
	}
	return database.Close()
}

func exportData(ctx context.Context, path string) error {
	if _, err := connect(); err != nil {
		return err
	}
	defer database.Close()

	var out io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	counts, err := transfer.Export(ctx, database.GetDB(), out)
	if err != nil {
		return err
	}
	logCounts("Exported", counts)
	return nil
}

func importData(ctx context.Context, path string) error {
	if _, err := connect(); err != nil {
		return err
	}
	defer database.Close()

	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	counts, err := transfer.Import(ctx, database.GetDB(), in)
	if err != nil {
		return err
	}
	logCounts("Imported", counts)
	return nil
}

func createSuperuser(ctx context.Context, username, email, password, positionName string) error {
	cfg, err := connect()
	if err != nil {
		return err
	}
	defer database.Close()

	avatars, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}

	db := database.GetDB()
	positionRepo := repository.NewPositionRepository(db)
	positionService := services.NewPositionService(positionRepo, avatars)
	workerService := services.NewWorkerService(repository.NewWorkerRepository(db), positionRepo, avatars)

	position, err := findOrCreatePosition(ctx, positionService, positionName)
	if err != nil {
		return err
	}

	worker, err := workerService.CreateSuperuser(ctx, services.RegisterInput{
		ProfileInput: services.ProfileInput{
			Username:   username,
			Email:      email,
			PositionID: position.ID,
		},
		Password1: password,
		Password2: password,
	})
	if err != nil {
		return err
	}

	logger.Infof("Superuser %s created (id %d, position %s)", worker.User.Username, worker.UserID, position.Name)
	return nil
}

func findOrCreatePosition(ctx context.Context, positions *services.PositionService, name string) (*models.Position, error) {
	all, err := positions.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, name) {
			return &all[i], nil
		}
	}
	return positions.Create(ctx, services.PositionInput{Name: name})
}

func logCounts(verb string, c dto.Counts) {
	logger.Infof("%s %d positions, %d users, %d workers, %d task types, %d tasks, %d assignments, %d comments",
		verb, c.Positions, c.Users, c.Workers, c.TaskTypes, c.Tasks, c.TaskAssignments, c.Commentaries)
}
