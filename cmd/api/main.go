package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/bank-onboarding/internal/buildinfo"
	"github.com/Dan9191/bank-onboarding/internal/config"
	"github.com/Dan9191/bank-onboarding/internal/handler"
	"github.com/Dan9191/bank-onboarding/internal/integrations/basiq"
	"github.com/Dan9191/bank-onboarding/internal/repository"
	"github.com/Dan9191/bank-onboarding/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warnf("Ignoring .env: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	banks, err := repository.NewRepository()
	if err != nil {
		logger.Fatalf("Failed to load bank directory: %v", err)
	}

	// Initialize layers
	client := basiq.NewClient(cfg, logger)
	svc := service.NewService(client, logger)
	h := handler.NewHandler(svc, banks, logger, handler.PageConfig{
		ApplicationID: cfg.BasiqAppID,
		DefaultPhone:  cfg.DefaultPhone,
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.BasiqTimeout + 10*time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"version":        buildinfo.Version,
			"environment":    cfg.BasiqEnv,
			"application_id": cfg.BasiqAppID,
		}).Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
