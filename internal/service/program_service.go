package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hackdesk/hackdesk-api/internal/dto"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/observability"
	"github.com/hackdesk/hackdesk-api/internal/repository"
)

// Program delivery errors surfaced to handlers.
var (
	ErrProgramTooLarge    = errors.New("program file exceeds maximum allowed size")
	ErrProgramNotPDF      = errors.New("program file must be a PDF document")
	ErrProgramFileMissing = errors.New("program file is required")
)

// ProgramService delivers training program artifacts to project owners.
type ProgramService interface {
	Send(ctx context.Context, senderID, projectID uint, file *multipart.FileHeader, payload dto.ProgramSendRequest) (dto.ProgramResponse, error)
}

type programService struct {
	programs  repository.ProgramRepository
	projects  repository.ProjectRepository
	notifier  NotificationService
	storage   FileStorage
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	maxSize   int64
}

// NewProgramService constructs a ProgramService instance.
func NewProgramService(programs repository.ProgramRepository, projects repository.ProjectRepository, notifier NotificationService, storage FileStorage, validate *validator.Validate, maxSizeMB int, logger zerolog.Logger) ProgramService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}

	return &programService{
		programs:  programs,
		projects:  projects,
		notifier:  notifier,
		storage:   storage,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "program_service").Logger(),
		tracer:    otel.Tracer("github.com/hackdesk/hackdesk-api/internal/service/program"),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
	}
}

func (s *programService) Send(ctx context.Context, senderID, projectID uint, file *multipart.FileHeader, payload dto.ProgramSendRequest) (dto.ProgramResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgramResponse{}, err
	}

	if file == nil {
		return dto.ProgramResponse{}, ErrProgramFileMissing
	}
	if file.Size > s.maxSize {
		return dto.ProgramResponse{}, ErrProgramTooLarge
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramResponse{}, ErrProjectNotFound
		}
		return dto.ProgramResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "programs.send", trace.WithAttributes(
		attribute.Int("program.project_id", int(projectID)),
		attribute.Int("program.sender_id", int(senderID)),
	))
	defer span.End()

	reader, err := file.Open()
	if err != nil {
		return dto.ProgramResponse{}, fmt.Errorf("failed to open program file: %w", err)
	}
	defer reader.Close()

	detected, err := mimetype.DetectReader(reader)
	if err != nil {
		return dto.ProgramResponse{}, fmt.Errorf("failed to inspect program file: %w", err)
	}
	if !detected.Is("application/pdf") {
		return dto.ProgramResponse{}, ErrProgramNotPDF
	}

	if _, err := reader.Seek(0, 0); err != nil {
		return dto.ProgramResponse{}, fmt.Errorf("failed to rewind program file: %w", err)
	}

	fileURL, err := s.storage.Upload(spanCtx, file.Filename, reader)
	if err != nil {
		span.RecordError(err)
		return dto.ProgramResponse{}, fmt.Errorf("failed to upload program file: %w", err)
	}

	program := models.Program{
		ProjectID: projectID,
		SenderID:  senderID,
		FileURL:   fileURL,
		Message:   strings.TrimSpace(s.sanitizer.Sanitize(payload.Message)),
		Details: datatypes.JSONMap{
			"training_date": payload.TrainingDate,
			"location":      payload.Location,
			"duration":      payload.Duration,
		},
	}

	if err := s.programs.Upsert(ctx, &program); err != nil {
		span.RecordError(err)
		return dto.ProgramResponse{}, err
	}

	stored, err := s.programs.GetByProject(ctx, projectID)
	if err != nil {
		return dto.ProgramResponse{}, err
	}

	message := fmt.Sprintf("A training program was sent for project %q", project.Title)
	if err := s.notifier.Notify(ctx, project.OwnerID, models.NotificationProgramSent, message); err != nil {
		s.logger.Warn().Err(err).Uint("project_id", projectID).Msg("failed to record program notification")
	}

	observability.ProgramsSentTotal().Inc()
	s.logger.Info().Uint("project_id", projectID).Str("file_url", fileURL).Msg("program sent")

	return dto.NewProgramResponse(stored), nil
}
