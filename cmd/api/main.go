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

	"github.com/hackdesk/hackdesk-api/internal/config"
	"github.com/hackdesk/hackdesk-api/internal/database"
	"github.com/hackdesk/hackdesk-api/internal/handler"
	"github.com/hackdesk/hackdesk-api/internal/middleware"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/repository"
	"github.com/hackdesk/hackdesk-api/internal/router"
	"github.com/hackdesk/hackdesk-api/internal/service"
	cloud "github.com/hackdesk/hackdesk-api/pkg/cloudinary"
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

	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.Member{}, &models.Program{}, &models.Notification{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	storage, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	programRepo := repository.NewProgramRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	catalog := service.NewStatusCatalog(redisClient, cfg.StatusCacheTTL, logger)
	notifier := service.NewNotificationService(notificationRepo, natsConn, logger)
	authService := service.NewAuthService(userRepo, validate, cfg, logger)
	projectService := service.NewProjectService(projectRepo, notifier, catalog, validate, cfg.SubmissionWindow, logger)
	studentService := service.NewStudentService(projectRepo, programRepo, validate, logger)
	programService := service.NewProgramService(programRepo, projectRepo, notifier, storage, validate, cfg.ProgramMaxSizeMB, logger)
	exportService := service.NewExportService(projectRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		TaskHandler:         handler.NewTaskHandler(projectService, catalog, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, projectService, logger),
		SupervisorHandler:   handler.NewSupervisorHandler(projectService, programService, logger),
		NotificationHandler: handler.NewNotificationHandler(notifier, logger),
		AdminHandler:        handler.NewAdminHandler(exportService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
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
