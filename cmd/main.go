package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/ryder-manager/config"
	"github.com/Dosada05/ryder-manager/db"
	"github.com/Dosada05/ryder-manager/federation"
	"github.com/Dosada05/ryder-manager/handlers"
	"github.com/Dosada05/ryder-manager/middleware"
	"github.com/Dosada05/ryder-manager/repositories"
	api "github.com/Dosada05/ryder-manager/routes"
	"github.com/Dosada05/ryder-manager/scoring"
	"github.com/Dosada05/ryder-manager/services"
	"github.com/Dosada05/ryder-manager/storage"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	handlers.SetLogger(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2Bucket,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := scoring.NewHub()
	go hub.Run()
	logger.Info("live scoring hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	countryRepo := repositories.NewPostgresCountryRepository(dbConn)
	courseRepo := repositories.NewPostgresCourseRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	enrollmentRepo := repositories.NewPostgresEnrollmentRepository(dbConn)
	assignmentRepo := repositories.NewPostgresTeamAssignmentRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	holeScoreRepo := repositories.NewPostgresHoleScoreRepository(dbConn)
	logger.Info("repositories initialized")

	emailService := services.NewEmailService(cfg)
	emailNotifier := services.NewEmailNotifier(emailService, competitionRepo, enrollmentRepo, userRepo, cfg.PublicURL)
	dispatcher := services.NewEventDispatcher(logger, emailNotifier)

	federationClient := federation.NewClient(cfg.FederationBaseURL, cfg.FederationAPIKey)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	referenceService := services.NewReferenceService(countryRepo, courseRepo)
	competitionService := services.NewCompetitionService(dbConn, competitionRepo, userRepo, countryRepo, uploader, dispatcher, logger)
	enrollmentService := services.NewEnrollmentService(dbConn, enrollmentRepo, competitionRepo, userRepo, dispatcher)
	roundService := services.NewRoundService(
		dbConn,
		roundRepo,
		matchRepo,
		competitionRepo,
		enrollmentRepo,
		assignmentRepo,
		userRepo,
		courseRepo,
		federationClient,
		dispatcher,
		logger,
	)
	scoreService := services.NewScoreService(
		dbConn,
		matchRepo,
		roundRepo,
		holeScoreRepo,
		competitionRepo,
		hub,
		dispatcher,
		logger,
	)
	logger.Info("services initialized")

	// Draft competitions whose start window has been reached are opened for
	// enrollment automatically.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("competition status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := competitionService.AutoActivateByDates(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := competitionService.AutoActivateByDates(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService, emailService, authenticator)
	userHandler := handlers.NewUserHandler(userService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService, scoreService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	roundHandler := handlers.NewRoundHandler(roundService)
	matchHandler := handlers.NewMatchHandler(scoreService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)
	webSocketHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		userHandler,
		competitionHandler,
		enrollmentHandler,
		roundHandler,
		matchHandler,
		referenceHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
