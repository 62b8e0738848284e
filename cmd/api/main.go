package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/api"
	"github.com/besufkad2328-dev/SEED/internal/app"
	"github.com/besufkad2328-dev/SEED/internal/config"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	defer utils.Log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		utils.Log.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}
	if err := cfg.ValidateAPI(); err != nil {
		utils.Log.Error("Invalid config", zap.Error(err))
		os.Exit(1)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Хранилище и сервисы
	a, err := app.New(ctx, cfg)
	if err != nil {
		utils.Log.Error("Failed to start", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	tokens := api.NewTokenIssuer(cfg.HTTP.JWTSecret, cfg.TokenTTL())
	handlers := api.NewHandlers(a.Profile, a.Nutrition, a.Progress, a.Hub)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           api.NewRouter(handlers, tokens),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.Log.Info("API starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Error("Failed to run API", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.Warn("API shutdown", zap.Error(err))
	}
	utils.Log.Info("API stopped")
}
