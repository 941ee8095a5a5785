package contract_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hackdesk/hackdesk-api/internal/config"
	"github.com/hackdesk/hackdesk-api/internal/handler"
	"github.com/hackdesk/hackdesk-api/internal/middleware"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/repository"
	"github.com/hackdesk/hackdesk-api/internal/router"
	"github.com/hackdesk/hackdesk-api/internal/service"
	"github.com/hackdesk/hackdesk-api/pkg/dashboard"
	"github.com/hackdesk/hackdesk-api/pkg/gateway"
	"github.com/hackdesk/hackdesk-api/pkg/session"
	"github.com/hackdesk/hackdesk-api/pkg/viewflow"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

const contractSecret = "contract-test-secret"

type contractStorage struct{}

func (contractStorage) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return "https://files.test/" + name, nil
}

// startServer boots the real Fiber API on a loopback socket so the client SDK
// talks to it over actual HTTP.
func startServer(t *testing.T) string {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Member{}, &models.Program{}, &models.Notification{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	cfg := config.Config{
		AppName:          "Contract",
		JWTSecret:        contractSecret,
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
	programService := service.NewProgramService(programRepo, projectRepo, notifier, contractStorage{}, validate, cfg.ProgramMaxSizeMB, logger)
	exportService := service.NewExportService(projectRepo, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		TaskHandler:         handler.NewTaskHandler(projectService, catalog, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, projectService, logger),
		SupervisorHandler:   handler.NewSupervisorHandler(projectService, programService, logger),
		NotificationHandler: handler.NewNotificationHandler(notifier, logger),
		AdminHandler:        handler.NewAdminHandler(exportService, logger),
		JWTMiddleware:       middleware.JWTProtected(contractSecret),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String() + "/api/v1"
}

func newClient(t *testing.T, baseURL string) (*gateway.Client, *session.Store, session.Storage) {
	t.Helper()

	storage := session.NewMemoryStorage()
	store := session.NewStore(storage, zerolog.Nop())
	return gateway.New(baseURL, store, zerolog.Nop()), store, storage
}

func TestStudentLifecycleAgainstRealServer(t *testing.T) {
	baseURL := startServer(t)
	client, store, storage := newClient(t, baseURL)

	identity, err := client.Auth.Register(context.Background(), gateway.Registration{
		Email:     "student@example.com",
		Password:  "secret-pass-1",
		Firstname: "Mona",
	})
	require.NoError(t, err)
	require.Equal(t, workflow.RoleStudent, identity.Role)
	require.True(t, store.Authenticated())

	// The persisted session reconstructs an identical state on reload.
	rehydrated := session.NewStore(storage, zerolog.Nop())
	require.NoError(t, rehydrated.Hydrate())
	require.Equal(t, store.Credential(), rehydrated.Credential())

	// Navigation gates follow the session role.
	require.Equal(t, "/student/projects", viewflow.Resolve("/student", store).Redirect)
	require.Equal(t, viewflow.LoginPath, viewflow.Resolve("/admin/projects", store).Redirect)

	created, err := client.Student.Create(context.Background(), gateway.ProjectDraft{
		Title:       "Flood Alarm",
		Description: "LoRa water level sensors",
		TeamMembers: []gateway.Member{
			{ID: "S-100", Name: "Aya"},
			{ID: "S-101", Name: "Bilal"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusSent, created.Status)
	require.Len(t, created.TeamMembers, 2)

	board := dashboard.NewStudentBoard(client, zerolog.Nop())
	require.NoError(t, board.Refresh(context.Background()))

	submitted, err := board.Submit(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, submitted.Submitted)

	// Submitting again is a no-op, not a failure.
	again, err := client.Student.Submit(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, again.Submitted)

	// A submitted project rejects owner edits and local state keeps the flag.
	title := "Flood Alarm v2"
	_, err = board.Edit(context.Background(), created.ID, gateway.ProjectEdit{Title: &title})
	require.True(t, gateway.IsKind(err, gateway.KindValidationFailed))

	cached, ok := board.Project(created.ID)
	require.True(t, ok)
	require.True(t, cached.Submitted)
	require.Equal(t, "Flood Alarm", cached.Title)
}

func TestReviewWorkflowAgainstRealServer(t *testing.T) {
	baseURL := startServer(t)

	studentClient, _, _ := newClient(t, baseURL)
	_, err := studentClient.Auth.Register(context.Background(), gateway.Registration{
		Email:     "owner@example.com",
		Password:  "secret-pass-1",
		Firstname: "Omar",
	})
	require.NoError(t, err)

	project, err := studentClient.Student.Create(context.Background(), gateway.ProjectDraft{
		Title:       "Mesh Relay",
		Description: "Off-grid messaging",
	})
	require.NoError(t, err)

	// The misspelled role variant from old backend revisions still lands on
	// the supervisor capability.
	reviewerClient, reviewerStore, _ := newClient(t, baseURL)
	reviewer, err := reviewerClient.Auth.Register(context.Background(), gateway.Registration{
		Email:     "reviewer@example.com",
		Password:  "secret-pass-1",
		Firstname: "Rami",
		Role:      "supervisyer",
	})
	require.NoError(t, err)
	require.Equal(t, workflow.RoleSupervisor, reviewer.Role)
	require.Equal(t, "/supervisor/projects", viewflow.Resolve("/supervisor", reviewerStore).Redirect)

	statuses, err := reviewerClient.Tasks.Statuses(context.Background())
	require.NoError(t, err)
	require.Equal(t, workflow.DefaultStatuses(), statuses)

	board := dashboard.NewSupervisorBoard(reviewerClient, zerolog.Nop())
	require.NoError(t, board.Refresh(context.Background()))

	moved, err := board.SetStatus(context.Background(), project.ID, "Directed to Interface 2")
	require.NoError(t, err)
	require.Equal(t, "Directed to Interface 2", moved.Status)

	// The exact label round-trips to the owner's view.
	fetched, err := studentClient.Student.Project(context.Background(), project.ID)
	require.NoError(t, err)
	require.Equal(t, "Directed to Interface 2", fetched.Status)

	// Program delivery reaches the owner.
	program, err := reviewerClient.Supervisor.SendProgram(context.Background(), project.ID, gateway.ProgramUpload{
		FileName:     "orientation.pdf",
		File:         strings.NewReader("%PDF-1.4\n1 0 obj\nendobj\n%%EOF\n"),
		Message:      "Orientation week schedule",
		TrainingDate: "2026-10-01",
		Location:     "Hall B",
		Duration:     "3 days",
	})
	require.NoError(t, err)
	require.Equal(t, "https://files.test/orientation.pdf", program.PDFURL)

	received, err := studentClient.Student.Program(context.Background(), project.ID)
	require.NoError(t, err)
	require.Equal(t, program.PDFURL, received.PDFURL)
	require.Equal(t, "2026-10-01", received.TrainingDate)
}

func TestRejectedCredentialClearsSession(t *testing.T) {
	baseURL := startServer(t)
	client, store, _ := newClient(t, baseURL)

	_, err := client.Auth.Register(context.Background(), gateway.Registration{
		Email:     "expired@example.com",
		Password:  "secret-pass-1",
		Firstname: "Lina",
	})
	require.NoError(t, err)
	require.True(t, store.Authenticated())

	// Replace the credential with garbage, as if the token expired.
	identity, ok := store.Identity()
	require.True(t, ok)
	require.NoError(t, store.SetAuth("tampered-token", identity))

	_, err = client.Student.Projects(context.Background())
	require.True(t, gateway.IsKind(err, gateway.KindAuthDenied))
	require.False(t, store.Authenticated())

	// Every subsequent protected call short-circuits without a credential.
	_, err = client.Student.Projects(context.Background())
	require.True(t, gateway.IsKind(err, gateway.KindAuthRequired))
	require.Equal(t, viewflow.LoginPath, viewflow.Resolve("/student/projects", store).Redirect)
}

func TestAdminCapabilityAgainstRealServer(t *testing.T) {
	baseURL := startServer(t)

	studentClient, _, _ := newClient(t, baseURL)
	_, err := studentClient.Auth.Register(context.Background(), gateway.Registration{
		Email:     "member@example.com",
		Password:  "secret-pass-1",
		Firstname: "Aya",
	})
	require.NoError(t, err)

	project, err := studentClient.Student.Create(context.Background(), gateway.ProjectDraft{
		Title:       "Short Lived",
		Description: "About to be removed",
	})
	require.NoError(t, err)

	adminClient, adminStore, _ := newClient(t, baseURL)
	admin, err := adminClient.Auth.Register(context.Background(), gateway.Registration{
		Email:     "admin@example.com",
		Password:  "secret-pass-1",
		Firstname: "Dana",
		Role:      "admin",
	})
	require.NoError(t, err)
	require.Equal(t, workflow.RoleAdmin, admin.Role)
	require.True(t, viewflow.Resolve("/admin/projects", adminStore).Grant)

	projects, err := adminClient.Tasks.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)

	require.NoError(t, adminClient.Tasks.Delete(context.Background(), project.ID))

	_, err = adminClient.Tasks.Get(context.Background(), project.ID)
	require.True(t, gateway.IsKind(err, gateway.KindNotFound))

	// Logout clears the session and the server acknowledges.
	require.NoError(t, adminClient.Auth.Logout(context.Background()))
	require.False(t, adminStore.Authenticated())
}
