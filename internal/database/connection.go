package database

import (
	"fmt"
	"workshop_manager/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string, logLevel string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(logLevel)),
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connected successfully")
	return db, nil
}

// AutoMigrate creates or updates every workshop table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.UserProfile{},
		&models.Customer{},
		&models.Vehicle{},
		&models.Mechanic{},
		&models.WorkZone{},
		&models.WorkOrder{},
		&models.Part{},
		&models.LogEntry{},
		&models.PartUsage{},
		&models.Budget{},
		&models.Alert{},
	)
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Silent
	}
}
