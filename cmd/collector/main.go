package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dailydotdev/analytics-go/internal/collector"
	"github.com/dailydotdev/analytics-go/internal/config"
	"github.com/dailydotdev/analytics-go/internal/logger"
)

func main() {
	cfg, err := config.LoadCollector()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := collector.NewHandler(cfg.AllowedOrigin, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Collector starting",
			zap.String("address", srv.Addr),
			zap.String("allowed_origin", cfg.AllowedOrigin))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start collector", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down collector", zap.Error(err))
	}

	stats := h.Stats()
	log.Info("Collector stopped",
		zap.Int64("batches", stats.Batches),
		zap.Int64("events", stats.Events),
		zap.Int64("rejected", stats.Rejected))
}
