package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/anshuman/hospital-api/internal/config"
	"github.com/anshuman/hospital-api/internal/email"
	"github.com/anshuman/hospital-api/internal/handler"
	adminHandler "github.com/anshuman/hospital-api/internal/handler/admin"
	analyticsHandler "github.com/anshuman/hospital-api/internal/handler/analytics"
	appointmentHandler "github.com/anshuman/hospital-api/internal/handler/appointment"
	authHandler "github.com/anshuman/hospital-api/internal/handler/auth"
	patientHandler "github.com/anshuman/hospital-api/internal/handler/patient"
	pharmacyHandler "github.com/anshuman/hospital-api/internal/handler/pharmacy"
	settingsHandler "github.com/anshuman/hospital-api/internal/handler/settings"
	staffHandler "github.com/anshuman/hospital-api/internal/handler/staff"
	subscriptionHandler "github.com/anshuman/hospital-api/internal/handler/subscription"
	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/repository/postgres"
	"github.com/anshuman/hospital-api/internal/router"
	analyticsService "github.com/anshuman/hospital-api/internal/service/analytics"
	appointmentService "github.com/anshuman/hospital-api/internal/service/appointment"
	authService "github.com/anshuman/hospital-api/internal/service/auth"
	hospitalService "github.com/anshuman/hospital-api/internal/service/hospital"
	patientService "github.com/anshuman/hospital-api/internal/service/patient"
	pharmacyService "github.com/anshuman/hospital-api/internal/service/pharmacy"
	settingsService "github.com/anshuman/hospital-api/internal/service/settings"
	staffService "github.com/anshuman/hospital-api/internal/service/staff"
	subscriptionService "github.com/anshuman/hospital-api/internal/service/subscription"
	"github.com/anshuman/hospital-api/pkg/auth"
	"github.com/anshuman/hospital-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogging(cfg.Logging)

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	baseRepo := postgres.NewBaseRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(baseRepo)
	userRepo := postgres.NewUserRepository(baseRepo)
	staffRepo := postgres.NewStaffRepository(baseRepo)
	subscriptionRepo := postgres.NewSubscriptionRepository(baseRepo)
	patientRepo := postgres.NewPatientRepository(baseRepo)
	appointmentRepo := postgres.NewAppointmentRepository(baseRepo)
	medicineRepo := postgres.NewMedicineRepository(baseRepo)
	settingsRepo := postgres.NewSettingsRepository(baseRepo)
	analyticsRepo := postgres.NewAnalyticsRepository(baseRepo)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)

	// Initialize services
	jwtSvc := auth.NewJWTService(cfg.JWT)
	hasher := security.NewBcryptHasher(0)
	emailSvc := email.NewService(cfg.SMTP, log.Logger)

	subscriptionSvc := subscriptionService.NewService(subscriptionRepo, hospitalRepo, patientRepo, userRepo, outboxRepo)
	authSvc := authService.NewService(userRepo, hospitalRepo, outboxRepo, subscriptionSvc, jwtSvc, hasher)
	hospitalSvc := hospitalService.NewService(hospitalRepo, userRepo, subscriptionSvc, outboxRepo, hasher)
	patientSvc := patientService.NewService(patientRepo, subscriptionSvc)
	staffSvc := staffService.NewService(userRepo, staffRepo, subscriptionSvc, hasher)
	appointmentSvc := appointmentService.NewService(appointmentRepo, staffRepo, userRepo, patientSvc, outboxRepo)
	pharmacySvc := pharmacyService.NewService(medicineRepo, outboxRepo, cfg.Analytics.DemoMode)
	settingsSvc := settingsService.NewService(settingsRepo)
	analyticsSvc := analyticsService.NewService(analyticsRepo, analyticsService.Config{
		CacheTTL: cfg.Analytics.CacheTTL,
		DemoMode: cfg.Analytics.DemoMode,
	})

	superAdmin := authService.SuperAdminCredentials{
		Username: cfg.SuperAdmin.Username,
		Email:    cfg.SuperAdmin.Email,
		Password: cfg.SuperAdmin.Password,
	}
	if err := authSvc.EnsureSuperAdmin(context.Background(), superAdmin); err != nil {
		log.Fatal().Err(err).Msg("failed to provision super admin")
	}

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler(db)
	adminH := adminHandler.NewHandler(authSvc, hospitalSvc, subscriptionSvc, analyticsRepo, superAdmin)
	authH := authHandler.NewHandler(authSvc, emailSvc)
	patientH := patientHandler.NewHandler(patientSvc)
	staffH := staffHandler.NewHandler(staffSvc, emailSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	pharmacyH := pharmacyHandler.NewHandler(pharmacySvc)
	subscriptionH := subscriptionHandler.NewHandler(subscriptionSvc)
	analyticsH := analyticsHandler.NewHandler(analyticsSvc)
	settingsH := settingsHandler.NewHandler(settingsSvc)

	// Setup router
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}

	routerConfig := router.Config{
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     corsConfig,
		MetricsPrefix:  "hospital_api",
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(
		authMiddleware,
		h,
		adminH,
		authH,
		patientH,
		staffH,
		appointmentH,
		pharmacyH,
		subscriptionH,
		analyticsH,
		settingsH,
		routerConfig,
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
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

func initLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}
