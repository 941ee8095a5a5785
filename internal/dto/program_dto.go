package dto

import (
	"time"

	"github.com/hackdesk/hackdesk-api/internal/models"
)

// ProgramSendRequest carries the metadata accompanying a program artifact.
// The file itself arrives as a multipart part.
type ProgramSendRequest struct {
	Message      string `json:"message" validate:"max=2000"`
	TrainingDate string `json:"training_date" validate:"omitempty,datetime=2006-01-02"`
	Location     string `json:"location" validate:"max=255"`
	Duration     string `json:"duration" validate:"max=64"`
}

// ProgramResponse is the wire shape of a training program artifact.
type ProgramResponse struct {
	ID           uint      `json:"id"`
	ProjectID    uint      `json:"project_id"`
	PDFURL       string    `json:"pdfUrl"`
	Message      string    `json:"message"`
	TrainingDate string    `json:"trainingDate,omitempty"`
	Location     string    `json:"location,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProgramResponse maps a program model to its wire shape.
func NewProgramResponse(program models.Program) ProgramResponse {
	response := ProgramResponse{
		ID:        program.ID,
		ProjectID: program.ProjectID,
		PDFURL:    program.FileURL,
		Message:   program.Message,
		CreatedAt: program.CreatedAt,
	}

	if value, ok := program.Details["training_date"].(string); ok {
		response.TrainingDate = value
	}
	if value, ok := program.Details["location"].(string); ok {
		response.Location = value
	}
	if value, ok := program.Details["duration"].(string); ok {
		response.Duration = value
	}

	return response
}
