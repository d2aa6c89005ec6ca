package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicware/platform/internal/api/router"
	"github.com/clinicware/platform/internal/appointments"
	"github.com/clinicware/platform/internal/auth"
	"github.com/clinicware/platform/internal/clinics"
	appconfig "github.com/clinicware/platform/internal/config"
	httpmiddleware "github.com/clinicware/platform/internal/http/middleware"
	"github.com/clinicware/platform/internal/notify"
	"github.com/clinicware/platform/internal/observability/metrics"
	"github.com/clinicware/platform/internal/patients"
	"github.com/clinicware/platform/pkg/logging"
)

var version = "dev"

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinicware API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"version", version,
	)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Repositories: Postgres when configured, in-memory otherwise (dev).
	var (
		userRepo    auth.Repository
		patientRepo patients.Repository
		apptRepo    appointments.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		userRepo = auth.NewPostgresRepository(pool)
		patientRepo = patients.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		logger.Info("using postgres repositories")
	} else {
		userRepo = auth.NewInMemoryRepository()
		patientRepo = patients.NewInMemoryRepository()
		apptRepo = appointments.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
	}

	// Redis backs clinic schedules.
	redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "error", err, "addr", cfg.RedisAddr)
		os.Exit(1)
	}
	clinicStore := clinics.NewStore(redisClient)

	// Payment proofs: S3 when a bucket is configured, local disk otherwise.
	var proofStore appointments.ProofStore
	if cfg.ProofBucket != "" {
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		proofStore = appointments.NewS3ProofStore(s3.NewFromConfig(awsCfg), cfg.ProofBucket)
		logger.Info("storing payment proofs in S3", "bucket", cfg.ProofBucket)
	} else {
		fileStore, err := appointments.NewFileProofStore(cfg.ProofDir)
		if err != nil {
			logger.Error("failed to create proof directory", "error", err, "dir", cfg.ProofDir)
			os.Exit(1)
		}
		proofStore = fileStore
		logger.Info("storing payment proofs on disk", "dir", cfg.ProofDir)
	}

	// Booking confirmations go out through SendGrid when configured.
	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else {
		sender = notify.NewStubEmailSender(logger)
		logger.Warn("SENDGRID_API_KEY not set, booking emails disabled")
	}
	notifier := notify.NewService(sender, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var googleVerifier auth.GoogleVerifier
	if v := auth.NewIDTokenVerifier(cfg.GoogleClientID); v != nil {
		googleVerifier = v
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}

	authHandler := auth.NewHandler(userRepo, tokens, googleVerifier, bookingMetrics, logger, httpmiddleware.UserFromRequest)
	patientsHandler := patients.NewHandler(patientRepo, logger)
	apptsHandler := appointments.NewHandler(apptRepo, proofStore, notifier, bookingMetrics, logger,
		func(r *http.Request) (int64, bool) {
			user, ok := httpmiddleware.UserFromRequest(r)
			if !ok {
				return 0, false
			}
			return user.ID, true
		})
	clinicsHandler := clinics.NewHandler(clinicStore, cfg.SlotStep, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		AuthHandler:         authHandler,
		PatientsHandler:     patientsHandler,
		AppointmentsHandler: apptsHandler,
		ClinicsHandler:      clinicsHandler,
		Tokens:              tokens,
		UserRepo:            userRepo,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		SignInRateLimit:     cfg.SignInRateLimit,
		SignInBurst:         cfg.SignInRateBurst,
		Version:             version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
