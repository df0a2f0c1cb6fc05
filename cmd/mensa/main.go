package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mensa/internal/campus"
	"mensa/internal/config"
	apphttp "mensa/internal/http"
	applog "mensa/internal/log"
	"mensa/internal/render"
	"mensa/internal/services"
)

func main() {
	// Best-effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	client, err := campus.NewClient(context.Background(), campus.Config{
		BaseURL:      cfg.CampusBaseURL,
		TokenURL:     cfg.CampusTokenURL,
		ClientID:     cfg.CampusClientID,
		ClientSecret: cfg.CampusClientSecret,
		Concurrency:  cfg.FetchConcurrency,
		Timeout:      cfg.HTTPTimeout,
	})
	if err != nil {
		logger.Error("Failed to initialize campus client", applog.FieldError, err.Error())
		os.Exit(1)
	}

	renderer, err := render.New()
	if err != nil {
		logger.Error("Failed to initialize renderer", applog.FieldError, err.Error())
		os.Exit(1)
	}

	reports := services.NewReportService(client, renderer)
	srv := apphttp.NewServer(":"+cfg.Port, reports, cfg.ReportYear)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting mensa server",
		"port", cfg.Port, applog.FieldYear, cfg.ReportYear)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
