package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/besufkad2328-dev/SEED/internal/api"
	"github.com/besufkad2328-dev/SEED/internal/app"
	"github.com/besufkad2328-dev/SEED/internal/bot"
	"github.com/besufkad2328-dev/SEED/internal/config"
	"github.com/besufkad2328-dev/SEED/pkg/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	defer utils.Log.Sync()

	// -----------------------
	// CONFIG
	cfg, err := config.Load("")
	if err != nil {
		utils.Log.Error("Failed to load config", zap.Error(err))
		os.Exit(1)
	}
	if err := cfg.ValidateBot(); err != nil {
		utils.Log.Error("Invalid config", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// -----------------------
	// STORAGE + SERVICES
	a, err := app.New(ctx, cfg)
	if err != nil {
		utils.Log.Error("Failed to start", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	// -----------------------
	// BOT
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		utils.Log.Error("Failed to create bot", zap.Error(err))
		os.Exit(1)
	}
	utils.Log.Info("Authorized on account", zap.String("username", botAPI.Self.UserName))

	adminIDs := bot.ParseAdminIDs(cfg.Telegram.AdminIDs)
	utils.Log.Info("Loaded admin IDs", zap.Int64s("admins", adminIDs))

	var tokens bot.TokenIssuer
	if cfg.HTTP.JWTSecret != "" {
		tokens = api.NewTokenIssuer(cfg.HTTP.JWTSecret, cfg.TokenTTL())
	}

	botApp := bot.NewBotApp(botAPI, a.Users, a.Profile, a.Nutrition, a.Progress, tokens, adminIDs)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		botAPI.StopReceivingUpdates()
	}()

	utils.Log.Info("Telegram bot starting...")
	botApp.Run(ctx, updates)
	utils.Log.Info("Telegram bot stopped")
}
