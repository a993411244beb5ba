package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/d8app/d8-backend/app/observability/metrics"
	"github.com/d8app/d8-backend/app/tracer"
	"github.com/d8app/d8-backend/config"
	"github.com/d8app/d8-backend/internal/api/aiclient"
	"github.com/d8app/d8-backend/internal/api/geocode"
	"github.com/d8app/d8-backend/internal/api/images"
	"github.com/d8app/d8-backend/internal/api/profiles"
	"github.com/d8app/d8-backend/internal/api/recommendation"
	"github.com/d8app/d8-backend/internal/router"
)

const defaultUserDataDir = "user_data"

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	metricsHandler, err := tracer.InitMetrics()
	if err != nil {
		logger.Error("Failed to initialize metrics exporter", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Dependency Injection ---
	// A missing Gemini key degrades the recommendation endpoints instead of
	// failing startup, so the image/status endpoints stay available.
	var ai recommendation.CompletionClient
	if cfg.Keys.Gemini != "" {
		client, err := aiclient.NewClient(ctx, cfg.Keys.Gemini, cfg.AI.Model, cfg.AI.Temperature, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Error("Failed to initialize AI client", slog.Any("error", err))
			os.Exit(1)
		}
		ai = client
	} else {
		logger.Warn("GEMINI_API_KEY not set, recommendation endpoints will degrade")
	}

	geocoder := geocode.NewClient(cfg.Geocode.NominatimURL, cfg.Geocode.UserAgent, logger)

	imageService := images.NewService(images.Options{
		GooglePlacesKey:    cfg.Keys.GooglePlaces,
		PexelsKey:          cfg.Keys.Pexels,
		UnsplashKey:        cfg.Keys.Unsplash,
		PlacesSearchRadius: cfg.Images.PlacesSearchRadius,
	}, logger)

	userDataDir := os.Getenv("USER_DATA_DIR")
	if userDataDir == "" {
		userDataDir = defaultUserDataDir
	}
	profileStore, err := profiles.NewStore(userDataDir, logger)
	if err != nil {
		logger.Error("Failed to initialize user profile store", slog.Any("error", err))
		os.Exit(1)
	}

	recService := recommendation.NewService(ai, geocoder, imageService, logger)
	recHandler := recommendation.NewHandler(recService, profileStore, logger)
	profileHandler := profiles.NewHandler(profileStore, logger)

	// --- Router Setup ---
	mux := router.SetupRouter(router.Dependencies{
		Recommendations: recHandler,
		Profiles:        profileHandler,
		Images:          imageService,
		AIConfigured:    recService.Configured(),
		Logger:          logger,
	}, cfg.Server.Timeout)

	// --- HTTP Servers ---
	apiAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	apiServer := &http.Server{
		Addr:         apiAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	metricsAddress := fmt.Sprintf(":%s", cfg.Handlers.Prometheus.Port)
	metricsServer := &http.Server{
		Addr:    metricsAddress,
		Handler: metricsHandler,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", apiAddress))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", metricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		logger.Info("Shutdown signal received, starting graceful shutdown...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
