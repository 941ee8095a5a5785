package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hackdesk/hackdesk-api/internal/auth"
	"github.com/hackdesk/hackdesk-api/internal/config"
	"github.com/hackdesk/hackdesk-api/internal/handler"
	"github.com/hackdesk/hackdesk-api/internal/middleware"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/repository"
	"github.com/hackdesk/hackdesk-api/internal/router"
	"github.com/hackdesk/hackdesk-api/internal/service"
)

const testSecret = "handler-test-secret"

type stubStorage struct{}

func (stubStorage) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return "https://files.test/" + name, nil
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Member{}, &models.Program{}, &models.Notification{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	cfg := config.Config{
		AppName:          "Test",
		JWTSecret:        testSecret,
		JWTTTL:           time.Hour,
		SubmissionWindow: 168 * time.Hour,
		ProgramMaxSizeMB: 10,
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	programRepo := repository.NewProgramRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	catalog := service.NewStatusCatalog(nil, time.Minute, logger)
	notifier := service.NewNotificationService(notificationRepo, nil, logger)
	authService := service.NewAuthService(userRepo, validate, cfg, logger)
	projectService := service.NewProjectService(projectRepo, notifier, catalog, validate, cfg.SubmissionWindow, logger)
	studentService := service.NewStudentService(projectRepo, programRepo, validate, logger)
	programService := service.NewProgramService(programRepo, projectRepo, notifier, stubStorage{}, validate, cfg.ProgramMaxSizeMB, logger)
	exportService := service.NewExportService(projectRepo, logger)

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		TaskHandler:         handler.NewTaskHandler(projectService, catalog, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, projectService, logger),
		SupervisorHandler:   handler.NewSupervisorHandler(projectService, programService, logger),
		NotificationHandler: handler.NewNotificationHandler(notifier, logger),
		AdminHandler:        handler.NewAdminHandler(exportService, logger),
		JWTMiddleware:       middleware.JWTProtected(testSecret),
	})

	return app, db
}

func futureDeadline() time.Time {
	return time.Now().Add(72 * time.Hour)
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		Firstname:    "Test",
		Lastname:     "User",
		Role:         role,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.IssueToken(user.ID, user.Email, user.Role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeResponse(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
