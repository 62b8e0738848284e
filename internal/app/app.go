// Package app собирает хранилище, шлюз и сервисы для бинарников.
package app

import (
	"context"
	"fmt"

	"github.com/besufkad2328-dev/SEED/internal/config"
	"github.com/besufkad2328-dev/SEED/internal/database"
	"github.com/besufkad2328-dev/SEED/internal/gateway"
	"github.com/besufkad2328-dev/SEED/internal/media"
	"github.com/besufkad2328-dev/SEED/internal/models"
	"github.com/besufkad2328-dev/SEED/internal/realtime"
	"github.com/besufkad2328-dev/SEED/internal/repository"
	"github.com/besufkad2328-dev/SEED/internal/service"
	"github.com/besufkad2328-dev/SEED/internal/store"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"go.uber.org/zap"
)

type App struct {
	Config    *config.Config
	Store     *store.Store
	Hub       *realtime.Hub
	Users     *service.UserService
	Profile   *service.ProfileService
	Nutrition *service.NutritionService
	Progress  *service.ProgressService

	closeDB func() error
}

// New подключает хранилище и собирает сервисы
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	stateRepo, userRepo, closeDB, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}

	st := store.New(stateRepo, store.WithLocation(loc))
	hub := realtime.NewHub()

	if cfg.Gemini.APIKey == "" {
		utils.Log.Warn("GEMINI_API_KEY not set, meal analysis will fail")
	}
	ai := gateway.NewGeminiClient(gateway.GeminiConfig{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
		Timeout:    cfg.GeminiTimeout(),
	})

	var images media.ImageStore
	if cfg.S3.Bucket != "" {
		s3, err := media.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicURL)
		if err != nil {
			_ = closeDB()
			return nil, err
		}
		images = s3
		utils.Log.Info("Meal images go to S3", zap.String("bucket", cfg.S3.Bucket))
	}

	return &App{
		Config:    cfg,
		Store:     st,
		Hub:       hub,
		Users:     service.NewUserService(userRepo),
		Profile:   service.NewProfileService(st, hub),
		Nutrition: service.NewNutritionService(st, ai, ai, images, hub),
		Progress:  service.NewProgressService(st, hub),
		closeDB:   closeDB,
	}, nil
}

// OpenStorage выбирает PostgreSQL или SQLite по SEED_STORAGE_DRIVER
func OpenStorage(cfg *config.Config) (repository.StateRepository, repository.UserRepository, func() error, error) {
	if err := cfg.ValidateStorage(); err != nil {
		return nil, nil, nil, err
	}

	if cfg.Storage.Driver == config.DriverSQLite {
		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewSQLiteStateRepo(db), repository.NewSQLiteUserRepo(db), db.Close, nil
	}

	db, err := database.NewPostgres(cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrateTables(db, &models.StateSnapshot{}, &models.User{}); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, err
	}
	return repository.NewStateRepo(db), repository.NewUserRepo(db), sqlDB.Close, nil
}

func (a *App) Close() error {
	if a.closeDB == nil {
		return nil
	}
	return a.closeDB()
}
