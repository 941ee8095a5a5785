package gateway

import (
	"context"
	"fmt"
	"net/http"
)

// StudentAPI covers the project owner capability.
type StudentAPI struct {
	client *Client
}

// ProjectDraft is the payload for registering a project.
type ProjectDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TeamMembers []Member `json:"teamMembers,omitempty"`
}

// ProjectEdit is an owner-side partial update. Workflow status is absent on
// purpose: owners never assign labels.
type ProjectEdit struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	TeamMembers *[]Member `json:"teamMembers,omitempty"`
}

// Projects lists the caller's own projects.
func (s *StudentAPI) Projects(ctx context.Context) ([]Project, error) {
	if err := s.client.requireAuth(); err != nil {
		return nil, err
	}

	var projects []Project
	if err := s.client.do(ctx, http.MethodGet, "/student/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Project fetches one of the caller's own projects.
func (s *StudentAPI) Project(ctx context.Context, id uint) (Project, error) {
	if err := s.client.requireAuth(); err != nil {
		return Project{}, err
	}

	var project Project
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/student/projects/%d", id), nil, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Create registers a project owned by the caller.
func (s *StudentAPI) Create(ctx context.Context, draft ProjectDraft) (Project, error) {
	if err := s.client.requireAuth(); err != nil {
		return Project{}, err
	}

	var project Project
	if err := s.client.do(ctx, http.MethodPost, "/student/projects", draft, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Update edits an unsubmitted project before its deadline.
func (s *StudentAPI) Update(ctx context.Context, id uint, edit ProjectEdit) (Project, error) {
	if err := s.client.requireAuth(); err != nil {
		return Project{}, err
	}

	var project Project
	if err := s.client.do(ctx, http.MethodPatch, fmt.Sprintf("/student/projects/%d", id), edit, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Submit finalizes the project. Submitting an already-submitted project is a
// no-op that returns the current record.
func (s *StudentAPI) Submit(ctx context.Context, id uint) (Project, error) {
	if err := s.client.requireAuth(); err != nil {
		return Project{}, err
	}

	var project Project
	if err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/student/projects/%d/submit", id), nil, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Program fetches the training program directed at the caller's project.
func (s *StudentAPI) Program(ctx context.Context, id uint) (Program, error) {
	if err := s.client.requireAuth(); err != nil {
		return Program{}, err
	}

	var program Program
	if err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/student/projects/%d/program", id), nil, &program); err != nil {
		return Program{}, err
	}
	return program, nil
}
