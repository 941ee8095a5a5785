package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hackdesk/hackdesk-api/internal/service"
	"github.com/hackdesk/hackdesk-api/internal/utils"
)

// AdminHandler serves administrative exports.
type AdminHandler struct {
	exports service.ExportService
	logger  zerolog.Logger
}

// NewAdminHandler builds an admin handler instance.
func NewAdminHandler(exports service.ExportService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		exports: exports,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/projects/export", h.exportProjects)
}

func (h *AdminHandler) exportProjects(c *fiber.Ctx) error {
	body, err := h.exports.ProjectsCSV(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	filename := "projects-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	return utils.SendCSV(c, filename, body)
}
