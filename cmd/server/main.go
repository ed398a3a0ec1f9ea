package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blitzweek/config"
	"blitzweek/internal/adapters/auth"
	"blitzweek/internal/adapters/email"
	httpdelivery "blitzweek/internal/delivery/http"
	"blitzweek/internal/delivery/http/controllers"
	"blitzweek/internal/delivery/http/middleware"
	"blitzweek/internal/metrics"
	"blitzweek/internal/repository/postgres"
	"blitzweek/internal/services"
)

const (
	adminTokenExpiry = 12 * time.Hour
	shutdownTimeout  = 10 * time.Second
	bcryptCost       = 12
)

// @title BlitzWeek Registration API
// @version 1.0
// @description Event registration API for ScaleUp Blitz and ScaleUp Ignite.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	m := metrics.New()
	registrationRepo := postgres.NewRegistrationRepository(db)
	statsRepo := postgres.NewStatsRepository(db)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	registrationService := services.NewRegistrationService(registrationRepo, emailService, m)
	statsService := services.NewStatsService(statsRepo)

	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcryptCost)
	adminService := services.NewAdminService(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.AdminPasswordSalt, hasher, tokenIssuer, adminTokenExpiry)

	registrationController := controllers.NewRegistrationController(logger, registrationService)
	adminController := controllers.NewAdminController(logger, registrationService, adminService)
	statsController := controllers.NewStatsController(logger, statsService)
	healthController := controllers.NewHealthController()

	mux := httpdelivery.NewRouter(registrationController, adminController, statsController, healthController, tokenVerifier)
	handler := middleware.CORS(cfg.CORSAllowedOrigins,
		middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			os.Exit(1)
		}
	}
}
