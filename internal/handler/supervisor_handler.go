package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hackdesk/hackdesk-api/internal/dto"
	"github.com/hackdesk/hackdesk-api/internal/middleware"
	"github.com/hackdesk/hackdesk-api/internal/service"
	"github.com/hackdesk/hackdesk-api/internal/utils"
)

// SupervisorHandler manages the reviewer-scoped endpoints: the full project
// roster and training program delivery.
type SupervisorHandler struct {
	projects service.ProjectService
	programs service.ProgramService
	logger   zerolog.Logger
}

// NewSupervisorHandler builds a supervisor handler instance.
func NewSupervisorHandler(projects service.ProjectService, programs service.ProgramService, logger zerolog.Logger) *SupervisorHandler {
	return &SupervisorHandler{
		projects: projects,
		programs: programs,
		logger:   logger.With().Str("component", "supervisor_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SupervisorHandler) Register(router fiber.Router) {
	router.Get("/projects", h.list)
	router.Post("/projects/:id/program", h.sendProgram)
}

func (h *SupervisorHandler) list(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "projects retrieved", projects)
}

func (h *SupervisorHandler) sendProgram(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "program file is required")
	}

	payload := dto.ProgramSendRequest{
		Message:      c.FormValue("message"),
		TrainingDate: c.FormValue("training_date"),
		Location:     c.FormValue("location"),
		Duration:     c.FormValue("duration"),
	}

	program, err := h.programs.Send(c.Context(), userID, id, file, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "program sent successfully", program)
}

func (h *SupervisorHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "project not found")
	case errors.Is(err, service.ErrProgramFileMissing):
		return utils.SendError(c, fiber.StatusBadRequest, "program file is required")
	case errors.Is(err, service.ErrProgramNotPDF):
		return utils.SendError(c, fiber.StatusBadRequest, "program file must be a PDF document")
	case errors.Is(err, service.ErrProgramTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "program file exceeds maximum allowed size")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
