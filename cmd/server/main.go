package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elecnet/internal/config"
	"elecnet/internal/database"
	"elecnet/internal/logger"
	"elecnet/internal/middleware"
	"elecnet/internal/registry"
	"elecnet/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelBootstrap()

	if err := database.CreateSchema(bootstrapCtx, db); err != nil {
		logr.Fatal("failed to bootstrap schema", zap.Error(err))
	}

	// Rehydrate dynamic endpoints registered in previous runs
	reg := registry.New(db, cfg.APIPrefix)
	loaded, err := reg.Load(bootstrapCtx)
	if err != nil {
		logr.Fatal("failed to load registered endpoints", zap.Error(err))
	}
	logr.Info("dynamic endpoints loaded", zap.Int("count", loaded))

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	metrics.EndpointsRegistered.Set(float64(loaded))

	r := routes.NewRouter(db, cfg, logr, reg, metrics)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	_ = db.Close()
	logr.Info("server exited gracefully")
}
