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
	"golang.org/x/time/rate"

	"github.com/multiclinicas/clinic-api/internal/config"
	"github.com/multiclinicas/clinic-api/internal/handler"
	appointmentHandler "github.com/multiclinicas/clinic-api/internal/handler/appointment"
	clinicHandler "github.com/multiclinicas/clinic-api/internal/handler/clinic"
	healthHandler "github.com/multiclinicas/clinic-api/internal/handler/health"
	healthplanHandler "github.com/multiclinicas/clinic-api/internal/handler/healthplan"
	patientHandler "github.com/multiclinicas/clinic-api/internal/handler/patient"
	practitionerHandler "github.com/multiclinicas/clinic-api/internal/handler/practitioner"
	specialtyHandler "github.com/multiclinicas/clinic-api/internal/handler/specialty"
	"github.com/multiclinicas/clinic-api/internal/middleware"
	"github.com/multiclinicas/clinic-api/internal/repository/postgres"
	"github.com/multiclinicas/clinic-api/internal/router"
	appointmentService "github.com/multiclinicas/clinic-api/internal/service/appointment"
	clinicService "github.com/multiclinicas/clinic-api/internal/service/clinic"
	healthplanService "github.com/multiclinicas/clinic-api/internal/service/healthplan"
	patientService "github.com/multiclinicas/clinic-api/internal/service/patient"
	practitionerService "github.com/multiclinicas/clinic-api/internal/service/practitioner"
	specialtyService "github.com/multiclinicas/clinic-api/internal/service/specialty"
	"github.com/multiclinicas/clinic-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := handler.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validators")
	}

	base := postgres.NewBaseRepository(db)
	clinicRepo := postgres.NewClinicRepository(base)
	specialtyRepo := postgres.NewSpecialtyRepository(base)
	healthPlanRepo := postgres.NewHealthPlanRepository(base)
	practitionerRepo := postgres.NewPractitionerRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	m := metrics.NewMetrics("clinic_api")

	clinicSvc := clinicService.NewService(clinicRepo)
	specialtySvc := specialtyService.NewService(specialtyRepo, clinicSvc)
	healthPlanSvc := healthplanService.NewService(healthPlanRepo, clinicSvc)
	practitionerSvc := practitionerService.NewService(practitionerRepo, clinicSvc, specialtySvc)
	patientSvc := patientService.NewService(patientRepo, clinicSvc)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		patientSvc,
		practitionerSvc,
		healthPlanSvc,
		outboxRepo,
		m,
	)

	tenant := middleware.NewTenantMiddleware(clinicSvc, cfg.JWT.Secret)

	r := router.New(
		tenant,
		healthHandler.NewHandler(db),
		clinicHandler.NewHandler(clinicSvc),
		specialtyHandler.NewHandler(specialtySvc),
		healthplanHandler.NewHandler(healthPlanSvc),
		practitionerHandler.NewHandler(practitionerSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		router.Config{
			RateLimit:  rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:  cfg.Server.RateLimitBurst,
			CORSConfig: middleware.DefaultCORSConfig(),
			Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
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
