package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aarogyahq/booking-api/internal/config"
	"github.com/aarogyahq/booking-api/internal/email"
	"github.com/aarogyahq/booking-api/internal/handler"
	dashboardHandler "github.com/aarogyahq/booking-api/internal/handler/dashboard"
	doctorHandler "github.com/aarogyahq/booking-api/internal/handler/doctor"
	hospitalHandler "github.com/aarogyahq/booking-api/internal/handler/hospital"
	specializationHandler "github.com/aarogyahq/booking-api/internal/handler/specialization"
	tokenHandler "github.com/aarogyahq/booking-api/internal/handler/token"
	userHandler "github.com/aarogyahq/booking-api/internal/handler/user"
	"github.com/aarogyahq/booking-api/internal/middleware"
	"github.com/aarogyahq/booking-api/internal/repository/postgres"
	"github.com/aarogyahq/booking-api/internal/router"
	availabilityService "github.com/aarogyahq/booking-api/internal/service/availability"
	authService "github.com/aarogyahq/booking-api/internal/service/auth"
	bookingService "github.com/aarogyahq/booking-api/internal/service/booking"
	dashboardService "github.com/aarogyahq/booking-api/internal/service/dashboard"
	doctorService "github.com/aarogyahq/booking-api/internal/service/doctor"
	hospitalService "github.com/aarogyahq/booking-api/internal/service/hospital"
	specializationService "github.com/aarogyahq/booking-api/internal/service/specialization"
	userService "github.com/aarogyahq/booking-api/internal/service/user"
	"github.com/aarogyahq/booking-api/internal/storage"
	"github.com/aarogyahq/booking-api/pkg/auth"
	"github.com/aarogyahq/booking-api/pkg/logger"
	"github.com/aarogyahq/booking-api/pkg/messaging/redis"
	"github.com/aarogyahq/booking-api/pkg/metrics"
	"github.com/aarogyahq/booking-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil).WithFields(map[string]interface{}{
		"component": "api",
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	specializationRepo := postgres.NewSpecializationRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)

	// Shared infrastructure
	m := metrics.NewMetrics("booking_api", "api")
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	signer := storage.NewSigner(cfg.Storage.SigningSecret, time.Duration(cfg.Storage.SignedURLMinutes)*time.Minute)

	mailer := email.NewNoopSender()
	if cfg.Email.Enabled {
		mailer = email.NewSMTPSender(email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
	}

	// Services
	authSvc := authService.NewService(userRepo, jwtSvc)
	userSvc := userService.NewService(userRepo, hospitalRepo, doctorRepo)
	hospitalSvc := hospitalService.NewService(hospitalRepo, doctorRepo, availabilityRepo, signer)
	doctorSvc := doctorService.NewService(doctorRepo, userRepo, hospitalRepo)
	specializationSvc := specializationService.NewService(specializationRepo)
	bookingSvc := bookingService.NewService(availabilityRepo, tokenRepo, userRepo, mailer, m, appLogger)
	availabilitySvc := availabilityService.NewService(availabilityRepo, m, appLogger)
	dashboardSvc := dashboardService.NewService(doctorRepo, hospitalRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler(db)
	userH := userHandler.NewHandler(authSvc, userSvc, authMiddleware)
	tokenH := tokenHandler.NewHandler(bookingSvc, availabilitySvc)
	hospitalH := hospitalHandler.NewHandler(hospitalSvc, authMiddleware)
	doctorH := doctorHandler.NewHandler(doctorSvc, authMiddleware)
	specializationH := specializationHandler.NewHandler(specializationSvc, authMiddleware)
	dashboardH := dashboardHandler.NewHandler(dashboardSvc)

	r := router.NewRouter(
		authMiddleware,
		userH,
		tokenH,
		hospitalH,
		doctorH,
		specializationH,
		dashboardH,
		h,
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "booking_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// The outbox processor also runs here so a single-binary deployment
	// still publishes events; cmd/worker covers scaled-out setups.
	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	outboxProcessor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  time.Duration(cfg.Outbox.PollIntervalSeconds) * time.Second,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    time.Duration(cfg.Outbox.RetryDelaySeconds) * time.Second,
		},
		appLogger,
		m,
	)

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()
	go outboxProcessor.Start(processorCtx)

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
