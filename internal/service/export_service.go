package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackdesk/hackdesk-api/internal/repository"
)

// ExportService produces administrative snapshots of the project roster.
type ExportService interface {
	ProjectsCSV(ctx context.Context) ([]byte, error)
}

type exportService struct {
	projects repository.ProjectRepository
	logger   zerolog.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(projects repository.ProjectRepository, logger zerolog.Logger) ExportService {
	return &exportService{
		projects: projects,
		logger:   logger.With().Str("component", "export_service").Logger(),
	}
}

func (s *exportService) ProjectsCSV(ctx context.Context) ([]byte, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "title", "owner_id", "status", "submitted", "submitted_at", "submission_deadline", "team_size", "created_at"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, project := range projects {
		submittedAt := ""
		if project.SubmittedAt != nil {
			submittedAt = project.SubmittedAt.UTC().Format(time.RFC3339)
		}

		row := []string{
			strconv.FormatUint(uint64(project.ID), 10),
			project.Title,
			strconv.FormatUint(uint64(project.OwnerID), 10),
			project.Status,
			strconv.FormatBool(project.Submitted),
			submittedAt,
			project.SubmissionDeadline.UTC().Format(time.RFC3339),
			strconv.Itoa(len(project.Members)),
			project.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("projects", len(projects)).Msg("project roster exported")

	return buf.Bytes(), nil
}
