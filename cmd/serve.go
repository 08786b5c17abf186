package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/config"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/db"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/handlers"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/repositories"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/routes"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/scoreboard"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/services"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/storage"
)

const shutdownTimeout = 15 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if autoMigrate {
		if err := migrate(cmd.Context(), dbConn, logger); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Логотипы в R2 опциональны: без них загрузка отвечает 503.
	uploader, err := newUploader(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Инициализация WebSocket Hub
	wsHub := scoreboard.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		wsHub.Run(ctx)
	}()
	logger.Info("websocket hub started")

	// Инициализация репозиториев
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	universityRepo := repositories.NewPostgresUniversityRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	contestRepo := repositories.NewPostgresContestRepository(dbConn)
	problemRepo := repositories.NewPostgresProblemRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)

	// Инициализация сервисов
	limits := services.Limits{Default: cfg.DefaultPageLimit, Max: cfg.MaxPageLimit}
	teamService := services.NewTeamService(teamRepo, limits, logger)
	profileService := services.NewProfileService(profileRepo, teamRepo, uploader, limits, logger)
	universityService := services.NewUniversityService(universityRepo, profileRepo, teamRepo, uploader, limits, logger)
	eventService := services.NewEventService(eventRepo, contestRepo, uploader, limits, logger)
	contestService := services.NewContestService(
		contestRepo,
		eventRepo,
		problemRepo,
		submissionRepo,
		teamRepo,
		wsHub,
		limits,
		logger,
	)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Team:       handlers.NewTeamHandler(teamService),
		Profile:    handlers.NewProfileHandler(profileService),
		University: handlers.NewUniversityHandler(universityService),
		Event:      handlers.NewEventHandler(eventService),
		Contest:    handlers.NewContestHandler(contestService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, contestService, originChecker(cfg.CORSAllowedOrigins), logger),
	}, cfg.CORSAllowedOrigins, logger)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		stop()
		<-hubDone
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return err
	}
	<-hubDone
	logger.Info("server shutdown complete")
	return nil
}

func newUploader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.FileUploader, error) {
	if !cfg.R2.Enabled() {
		logger.Warn("R2 is not configured, logo uploads are disabled")
		return nil, nil
	}
	uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2.AccountID,
		AccessKeyID:     cfg.R2.AccessKeyID,
		SecretAccessKey: cfg.R2.SecretAccessKey,
		BucketName:      cfg.R2.BucketName,
		PublicBaseURL:   cfg.R2.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
	}
	logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	return uploader, nil
}

// originChecker mirrors the CORS allow-list for websocket upgrades.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

func init() {
	// Без подкоманды запускается serve.
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"serve"})
	}
}
