package database

import (
	"fmt"
	"time"

	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 15

// NewPostgres подключается к PostgreSQL с retry логикой
func NewPostgres(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	utils.Log.Info("Attempting to connect to database...")

	// Пытаемся подключиться 15 раз с увеличением паузы
	for i := 1; i <= connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})

		if err == nil {
			// Проверяем живое подключение
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					utils.Log.Info("Database connected", zap.Int("attempt", i))
					return db, nil
				}
			} else {
				err = dbErr
			}
		}

		utils.Log.Warn("Database connection attempt failed", zap.Int("attempt", i), zap.Error(err))

		time.Sleep(backoff(i))
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, err)
}

// Экспоненциальная backoff: 1, 2, 4, 8 секунд... не больше 10
func backoff(attempt int) time.Duration {
	wait := time.Duration(1<<uint(attempt-1)) * time.Second
	if wait > 10*time.Second {
		wait = 10 * time.Second
	}
	return wait
}

// AutoMigrateTables создает таблицы
func AutoMigrateTables(db *gorm.DB, models ...interface{}) error {
	utils.Log.Info("Running database migrations...")

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	utils.Log.Info("Database migrations completed")
	return nil
}
