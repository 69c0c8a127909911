package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/campuscard/card_backend/internal/anomaly"
	"github.com/campuscard/card_backend/internal/config"
	"github.com/campuscard/card_backend/internal/database"
	"github.com/campuscard/card_backend/internal/logging"
	"github.com/campuscard/card_backend/internal/notify"
	"github.com/campuscard/card_backend/internal/routes"
	"github.com/campuscard/card_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := logging.NewLogger()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	if err := database.SeedAdmin(db, cfg); err != nil {
		logger.Fatal("admin seed failed", zap.Error(err))
	}

	// The detector is optional: without it /predict answers 503 and
	// ingestion stores logs unflagged.
	var detector *anomaly.Detector
	if d, err := anomaly.Load(cfg.ModelPath); err != nil {
		logger.Warn("no anomaly model loaded; /predict and anomaly detection disabled",
			zap.String("path", cfg.ModelPath), zap.Error(err))
	} else {
		detector = d
		logger.Info("loaded anomaly model", zap.String("path", cfg.ModelPath))
	}

	hub := ws.NewTelemetryHub()
	go hub.Run()

	var notifier *notify.Telegram
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		if n, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger); err != nil {
			logger.Warn("telegram alerts disabled", zap.Error(err))
		} else {
			notifier = n
			logger.Info("telegram alerts enabled")
		}
	}

	r := gin.Default()
	routes.Register(r, db, cfg, routes.Deps{
		Detector: detector,
		Hub:      hub,
		Notifier: notifier,
		Logger:   logger,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}
