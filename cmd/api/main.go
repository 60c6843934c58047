package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/irisclinic/clinic-api/internal/authz"
	"github.com/irisclinic/clinic-api/internal/config"
	"github.com/irisclinic/clinic-api/internal/email"
	"github.com/irisclinic/clinic-api/internal/handler"
	analyticsHandler "github.com/irisclinic/clinic-api/internal/handler/analytics"
	authHandler "github.com/irisclinic/clinic-api/internal/handler/auth"
	medicalHandler "github.com/irisclinic/clinic-api/internal/handler/medical"
	patientHandler "github.com/irisclinic/clinic-api/internal/handler/patient"
	"github.com/irisclinic/clinic-api/internal/middleware"
	"github.com/irisclinic/clinic-api/internal/repository/postgres"
	redisrepo "github.com/irisclinic/clinic-api/internal/repository/redis"
	"github.com/irisclinic/clinic-api/internal/router"
	analyticsService "github.com/irisclinic/clinic-api/internal/service/analytics"
	authService "github.com/irisclinic/clinic-api/internal/service/auth"
	medicalService "github.com/irisclinic/clinic-api/internal/service/medical"
	patientService "github.com/irisclinic/clinic-api/internal/service/patient"
	"github.com/irisclinic/clinic-api/pkg/auth"
	"github.com/irisclinic/clinic-api/pkg/logger"
	"github.com/irisclinic/clinic-api/pkg/upload"
)

func corsConfig(origins []string) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(origins) > 0 {
		cors.AllowOrigins = origins
	}
	return cors
}

func main() {
	logg := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		logg.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logg.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	tokenStore, err := redisrepo.NewTokenStore(cfg.Redis.URL)
	if err != nil {
		logg.Fatal(err, "failed to connect to Redis")
	}

	storage, err := upload.NewDiskStorage(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	if err != nil {
		logg.Fatal(err, "failed to initialize upload storage")
	}

	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	historyRepo := postgres.NewMedicalHistoryRepository(db)
	symptomRepo := postgres.NewSymptomRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessExpiry:  cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	})
	emailSvc := email.NewSMTPService(cfg.SMTP)
	policy := authz.NewPolicy()

	authSvc := authService.NewService(userRepo, tokenStore, jwtSvc, emailSvc, cfg.JWT.RefreshExpiry)
	patientSvc := patientService.NewService(patientRepo, policy, storage)
	medicalSvc := medicalService.NewService(historyRepo, symptomRepo)
	analyticsSvc := analyticsService.NewService(analyticsRepo, symptomRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler()
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc, policy),
		patientHandler.NewHandler(patientSvc),
		medicalHandler.NewHandler(medicalSvc),
		analyticsHandler.NewHandler(analyticsSvc),
		h,
		router.RouterConfig{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CORSConfig:     corsConfig(cfg.CORS.AllowedOrigins),
			RequestTimeout: cfg.Server.RequestTimeout,
			UploadsDir:     cfg.Uploads.Dir,
			UploadsPrefix:  cfg.Uploads.URLPrefix,
			MetricsPrefix:  "clinic_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logg.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Fatal(err, "server forced to shutdown")
	}

	logg.Info("server exited properly")
}
