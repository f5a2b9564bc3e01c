package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crumbapp/crumb-api/internal/config"
	"github.com/crumbapp/crumb-api/internal/db"
	"github.com/crumbapp/crumb-api/internal/logger"
	"github.com/crumbapp/crumb-api/internal/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	isDev := os.Getenv("GIN_MODE") != "release"
	logger.Init(isDev)
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if err := cfg.CheckConfigEnvFields(); err != nil {
		log.Fatal("missing required config fields", zap.Error(err))
	}

	prompts, err := config.LoadPrompts("configs/prompts.yaml")
	if err != nil {
		log.Fatal("failed to load prompts", zap.Error(err))
	}
	cfg.Prompts = prompts

	database, err := db.New(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := database.DB()
	if err != nil {
		log.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.EnvVars.Port,
		Handler: router.SetupRouter(cfg, database),
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.EnvVars.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	// Block until SIGINT/SIGTERM, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
