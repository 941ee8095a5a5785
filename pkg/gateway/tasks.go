package gateway

import (
	"context"
	"fmt"
	"net/http"
)

// TasksAPI covers the supervisor/admin project capability.
type TasksAPI struct {
	client *Client
}

// TaskCreate is the payload for creating a project on behalf of a student.
type TaskCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TeamMembers []Member `json:"teamMembers,omitempty"`
}

// TaskUpdate is a partial project update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	TeamMembers *[]Member `json:"teamMembers,omitempty"`
}

// List fetches every project.
func (t *TasksAPI) List(ctx context.Context) ([]Project, error) {
	if err := t.client.requireAuth(); err != nil {
		return nil, err
	}

	var projects []Project
	if err := t.client.do(ctx, http.MethodGet, "/tasks", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get fetches a single project.
func (t *TasksAPI) Get(ctx context.Context, id uint) (Project, error) {
	if err := t.client.requireAuth(); err != nil {
		return Project{}, err
	}

	var project Project
	if err := t.client.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Create registers a new project.
func (t *TasksAPI) Create(ctx context.Context, create TaskCreate) (Project, error) {
	if err := t.client.requireAuth(); err != nil {
		return Project{}, err
	}

	var project Project
	if err := t.client.do(ctx, http.MethodPost, "/tasks", create, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Update applies a partial update and returns the merged record.
func (t *TasksAPI) Update(ctx context.Context, id uint, update TaskUpdate) (Project, error) {
	if err := t.client.requireAuth(); err != nil {
		return Project{}, err
	}

	var project Project
	if err := t.client.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", id), update, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// SetStatus moves a project to the given workflow label.
func (t *TasksAPI) SetStatus(ctx context.Context, id uint, label string) (Project, error) {
	return t.Update(ctx, id, TaskUpdate{Status: &label})
}

// Delete removes a project.
func (t *TasksAPI) Delete(ctx context.Context, id uint) error {
	if err := t.client.requireAuth(); err != nil {
		return err
	}
	return t.client.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// Statuses fetches the ordered workflow label catalog.
func (t *TasksAPI) Statuses(ctx context.Context) ([]string, error) {
	if err := t.client.requireAuth(); err != nil {
		return nil, err
	}

	var statuses []string
	if err := t.client.do(ctx, http.MethodGet, "/tasks/statuses", nil, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}
