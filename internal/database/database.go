package database

import (
	"fmt"

	"github.com/yukikurage/task-manager/internal/config"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks the gorm driver named by cfg.DBDriver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return OpenSQLite(cfg.DBPath + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func Connect(cfg *config.Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	logMode := gormlogger.Silent
	if cfg.GinMode == "debug" {
		logMode = gormlogger.Info
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Infof("Database connection established (%s)", cfg.DBDriver)
	return nil
}

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.Position{},
		&models.User{},
		&models.Worker{},
		&models.TaskType{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Commentary{},
	}
}

func Migrate() error {
	logger.Info("Running database migrations...")
	if err := MigrateDatabase(DB); err != nil {
		return err
	}
	logger.Info("Database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
