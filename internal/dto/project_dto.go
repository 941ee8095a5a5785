package dto

import (
	"time"

	"github.com/hackdesk/hackdesk-api/internal/models"
)

// MemberPayload describes one team member on a project.
type MemberPayload struct {
	ID    string `json:"id" validate:"required,max=64"`
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=64"`
}

// ProjectCreateRequest registers a new project for the calling student.
type ProjectCreateRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description" validate:"required"`
	Members     []MemberPayload `json:"teamMembers" validate:"omitempty,dive"`
}

// ProjectUpdateRequest is a partial update; nil fields are left untouched.
// Status is honoured only for supervisor/admin callers.
type ProjectUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Status      *string          `json:"status" validate:"omitempty,max=64"`
	Members     *[]MemberPayload `json:"teamMembers" validate:"omitempty,dive"`
}

// StudentProjectUpdateRequest is the owner-facing partial update. Status is
// deliberately absent: owners never assign workflow labels.
type StudentProjectUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Members     *[]MemberPayload `json:"teamMembers" validate:"omitempty,dive"`
}

// ProjectResponse is the wire shape of a project record.
type ProjectResponse struct {
	ID                 uint             `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	OwnerID            uint             `json:"owner_id"`
	Status             string           `json:"status"`
	Submitted          bool             `json:"submitted"`
	SubmittedAt        *time.Time       `json:"submitted_at,omitempty"`
	SubmissionDeadline time.Time        `json:"submission_deadline"`
	TeamMembers        []MemberResponse `json:"teamMembers"`
	CreatedAt          time.Time        `json:"created_at"`
}

// MemberResponse is the wire shape of a team member.
type MemberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewProjectResponse maps a project model to its wire shape.
func NewProjectResponse(project models.Project) ProjectResponse {
	members := make([]MemberResponse, 0, len(project.Members))
	for _, member := range project.Members {
		members = append(members, MemberResponse{
			ID:    member.MemberID,
			Name:  member.Name,
			Email: member.Email,
			Phone: member.Phone,
		})
	}

	return ProjectResponse{
		ID:                 project.ID,
		Title:              project.Title,
		Description:        project.Description,
		OwnerID:            project.OwnerID,
		Status:             project.Status,
		Submitted:          project.Submitted,
		SubmittedAt:        project.SubmittedAt,
		SubmissionDeadline: project.SubmissionDeadline,
		TeamMembers:        members,
		CreatedAt:          project.CreatedAt,
	}
}

// NewProjectResponseSlice maps a slice of project models.
func NewProjectResponseSlice(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, NewProjectResponse(project))
	}
	return responses
}
