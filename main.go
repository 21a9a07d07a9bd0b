package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/agora-forum/api-go/config"
	"github.com/agora-forum/api-go/mailer"
	"github.com/agora-forum/api-go/middleware"
	"github.com/agora-forum/api-go/routes"
	"github.com/agora-forum/api-go/storage"
	"github.com/gin-gonic/gin"
)

const uploadsDir = "uploads"

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func main() {
	cfg := config.Load()

	log := newLogger(cfg)
	slog.SetDefault(log)

	// Initialize database
	db, err := config.InitDB(context.Background(), cfg)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	var m mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.SMTP.Host != "" {
		smtpMailer, err := mailer.NewSMTPMailer(mailer.SMTPConfig(cfg.SMTP))
		if err != nil {
			log.Error("failed to configure smtp", "error", err)
			os.Exit(1)
		}
		m = smtpMailer
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	var store storage.Store
	if cfg.R2.Enabled() {
		store = storage.NewR2Store(cfg.R2)
	} else {
		store = storage.NewLocalStore(uploadsDir, cfg.BaseURL+"/uploads")
		r.Static("/uploads", uploadsDir)
	}

	// Initialize routes
	routes.SetupRoutes(r, routes.Dependencies{
		DB:     db,
		Config: cfg,
		Log:    log,
		Mailer: m,
		Store:  store,
	})

	log.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
