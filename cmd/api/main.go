package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/examcell/results-api/internal/config"
	"github.com/examcell/results-api/internal/database"
	"github.com/examcell/results-api/internal/handler"
	"github.com/examcell/results-api/internal/middleware"
	"github.com/examcell/results-api/internal/models"
	"github.com/examcell/results-api/internal/repository"
	"github.com/examcell/results-api/internal/router"
	"github.com/examcell/results-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Admin{}, &models.Student{}, &models.Subject{}, &models.Result{}, &models.Upload{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	adminRepo := repository.NewAdminRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	resultRepo := repository.NewResultRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	authService := service.NewAuthService(adminRepo, studentRepo, validate, cfg.JWTSecret, cfg.JWTExpiry, logger)
	studentService := service.NewStudentService(studentRepo, resultRepo, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, validate, logger)
	resultService := service.NewResultService(resultRepo, studentRepo, subjectRepo, studentService, validate, logger)
	uploadService := service.NewUploadService(uploadRepo, resultRepo, subjectRepo, studentService, cfg.UploadBatch, logger)
	reportService := service.NewReportService(resultRepo, studentRepo, redisClient, cfg.ReportCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	subjectHandler := handler.NewSubjectHandler(subjectService, logger)
	resultHandler := handler.NewResultHandler(resultService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    authHandler,
		StudentHandler: studentHandler,
		SubjectHandler: subjectHandler,
		ResultHandler:  resultHandler,
		UploadHandler:  uploadHandler,
		ReportHandler:  reportHandler,
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
