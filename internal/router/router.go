package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/hackdesk-api/internal/config"
	"github.com/hackdesk/hackdesk-api/internal/handler"
	"github.com/hackdesk/hackdesk-api/internal/middleware"
	"github.com/hackdesk/hackdesk-api/internal/observability"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	TaskHandler         *handler.TaskHandler
	StudentHandler      *handler.StudentHandler
	SupervisorHandler   *handler.SupervisorHandler
	NotificationHandler *handler.NotificationHandler
	AdminHandler        *handler.AdminHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	requireReviewer := middleware.RequireRole(workflow.RoleSupervisor.String(), workflow.RoleAdmin.String())
	requireAdmin := middleware.RequireRole(workflow.RoleAdmin.String())
	requireStudent := middleware.RequireRole(workflow.RoleStudent.String())

	if deps.AuthHandler != nil {
		public := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.RegisterPublic(public)

		protected := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(protected)
	}

	if deps.TaskHandler != nil {
		tasks := api.Group("/tasks", jwtMiddleware)
		deps.TaskHandler.Register(tasks, requireReviewer, requireAdmin)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, requireStudent)
		deps.StudentHandler.Register(student)
	}

	if deps.SupervisorHandler != nil {
		supervisor := api.Group("/supervisor", jwtMiddleware, requireReviewer)
		deps.SupervisorHandler.Register(supervisor)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, requireAdmin)
		deps.AdminHandler.Register(admin)
	}
}
