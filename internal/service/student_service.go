package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hackdesk/hackdesk-api/internal/dto"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/repository"
)

// Student-scoped errors surfaced to handlers.
var (
	ErrAlreadySubmitted = errors.New("project already submitted")
	ErrDeadlinePassed   = errors.New("submission deadline has passed")
	ErrProgramNotFound  = errors.New("training program not found")
)

// StudentService covers the owner's view of their projects: listing, gated
// edits, submission and training program retrieval.
type StudentService interface {
	Projects(ctx context.Context, ownerID uint) ([]dto.ProjectResponse, error)
	Project(ctx context.Context, ownerID, id uint) (dto.ProjectResponse, error)
	Update(ctx context.Context, ownerID, id uint, payload dto.StudentProjectUpdateRequest) (dto.ProjectResponse, error)
	Submit(ctx context.Context, ownerID, id uint) (dto.ProjectResponse, error)
	Program(ctx context.Context, ownerID, id uint) (dto.ProgramResponse, error)
}

type studentService struct {
	projects  repository.ProjectRepository
	programs  repository.ProgramRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(projects repository.ProjectRepository, programs repository.ProgramRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		projects:  projects,
		programs:  programs,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) Projects(ctx context.Context, ownerID uint) ([]dto.ProjectResponse, error) {
	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return dto.NewProjectResponseSlice(projects), nil
}

func (s *studentService) Project(ctx context.Context, ownerID, id uint) (dto.ProjectResponse, error) {
	project, err := s.ownedProject(ctx, ownerID, id)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *studentService) Update(ctx context.Context, ownerID, id uint, payload dto.StudentProjectUpdateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	project, err := s.ownedProject(ctx, ownerID, id)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	now := s.now()
	if project.Submitted {
		return dto.ProjectResponse{}, ErrAlreadySubmitted
	}
	if !project.SubmitOpen(now) {
		return dto.ProjectResponse{}, ErrDeadlinePassed
	}

	fields := map[string]interface{}{}
	if payload.Title != nil {
		fields["title"] = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Title))
	}
	if payload.Description != nil {
		fields["description"] = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Description))
	}

	if len(fields) > 0 {
		if err := s.projects.Updates(ctx, id, fields); err != nil {
			return dto.ProjectResponse{}, err
		}
	}

	if payload.Members != nil {
		if err := s.projects.ReplaceMembers(ctx, id, membersFromPayload(*payload.Members)); err != nil {
			return dto.ProjectResponse{}, err
		}
	}

	updated, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(updated), nil
}

func (s *studentService) Submit(ctx context.Context, ownerID, id uint) (dto.ProjectResponse, error) {
	project, err := s.ownedProject(ctx, ownerID, id)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	// Submitting twice is not an error: the first submission stands.
	if project.Submitted {
		return dto.NewProjectResponse(project), nil
	}

	now := s.now()
	if !project.SubmitOpen(now) {
		return dto.ProjectResponse{}, ErrDeadlinePassed
	}

	fields := map[string]interface{}{
		"submitted":    true,
		"submitted_at": now,
	}
	if err := s.projects.Updates(ctx, id, fields); err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Uint("project_id", id).Uint("owner_id", ownerID).Msg("project submitted")

	updated, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(updated), nil
}

func (s *studentService) Program(ctx context.Context, ownerID, id uint) (dto.ProgramResponse, error) {
	if _, err := s.ownedProject(ctx, ownerID, id); err != nil {
		return dto.ProgramResponse{}, err
	}

	program, err := s.programs.GetByProject(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramResponse{}, ErrProgramNotFound
		}
		return dto.ProgramResponse{}, err
	}

	return dto.NewProgramResponse(program), nil
}

// ownedProject loads a project and hides other owners' records behind
// not-found rather than forbidden.
func (s *studentService) ownedProject(ctx context.Context, ownerID, id uint) (models.Project, error) {
	record, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, ErrProjectNotFound
		}
		return record, err
	}

	if record.OwnerID != ownerID {
		return record, ErrProjectNotFound
	}

	return record, nil
}
