package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hackdesk/hackdesk-api/internal/dto"
	"github.com/hackdesk/hackdesk-api/internal/models"
	"github.com/hackdesk/hackdesk-api/internal/repository"
	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// Project errors surfaced to handlers.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrUnknownStatus   = errors.New("unknown status label")
)

// ProjectService covers the supervisor/admin view of projects: listing,
// reassigning status, administrative creation and deletion.
type ProjectService interface {
	List(ctx context.Context) ([]dto.ProjectResponse, error)
	Get(ctx context.Context, id uint) (dto.ProjectResponse, error)
	Create(ctx context.Context, ownerID uint, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error)
	Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, id uint) error
}

type projectService struct {
	projects  repository.ProjectRepository
	notifier  NotificationService
	catalog   StatusCatalog
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	window    time.Duration
	now       func() time.Time
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(projects repository.ProjectRepository, notifier NotificationService, catalog StatusCatalog, validate *validator.Validate, window time.Duration, logger zerolog.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		notifier:  notifier,
		catalog:   catalog,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "project_service").Logger(),
		window:    window,
		now:       time.Now,
	}
}

func (s *projectService) List(ctx context.Context) ([]dto.ProjectResponse, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewProjectResponseSlice(projects), nil
}

func (s *projectService) Get(ctx context.Context, id uint) (dto.ProjectResponse, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrProjectNotFound
		}
		return dto.ProjectResponse{}, err
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Create(ctx context.Context, ownerID uint, payload dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	project := models.Project{
		Title:              strings.TrimSpace(s.sanitizer.Sanitize(payload.Title)),
		Description:        strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		OwnerID:            ownerID,
		Status:             workflow.StatusSent,
		SubmissionDeadline: s.now().Add(s.window),
		Members:            membersFromPayload(payload.Members),
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().Uint("project_id", project.ID).Uint("owner_id", ownerID).Msg("project created")

	return s.Get(ctx, project.ID)
}

func (s *projectService) Update(ctx context.Context, id uint, payload dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	current, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrProjectNotFound
		}
		return dto.ProjectResponse{}, err
	}

	fields := map[string]interface{}{}
	if payload.Title != nil {
		fields["title"] = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Title))
	}
	if payload.Description != nil {
		fields["description"] = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Description))
	}

	statusChanged := false
	if payload.Status != nil && *payload.Status != current.Status {
		catalog, err := s.catalog.Statuses(ctx)
		if err != nil {
			return dto.ProjectResponse{}, err
		}
		if !workflow.ValidStatus(*payload.Status, catalog) {
			return dto.ProjectResponse{}, ErrUnknownStatus
		}
		fields["status"] = *payload.Status
		statusChanged = true
	}

	if len(fields) > 0 {
		if err := s.projects.Updates(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ProjectResponse{}, ErrProjectNotFound
			}
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

	if statusChanged {
		message := fmt.Sprintf("Project %q is now %q", updated.Title, updated.Status)
		if err := s.notifier.Notify(ctx, updated.OwnerID, models.NotificationStatusChanged, message); err != nil {
			s.logger.Warn().Err(err).Uint("project_id", id).Msg("failed to record status notification")
		}
	}

	return dto.NewProjectResponse(updated), nil
}

func (s *projectService) Delete(ctx context.Context, id uint) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	s.logger.Info().Uint("project_id", id).Msg("project deleted")

	return nil
}

func membersFromPayload(payloads []dto.MemberPayload) []models.Member {
	members := make([]models.Member, 0, len(payloads))
	for i, payload := range payloads {
		members = append(members, models.Member{
			MemberID: payload.ID,
			Name:     payload.Name,
			Email:    payload.Email,
			Phone:    payload.Phone,
			Position: i,
		})
	}
	return members
}
