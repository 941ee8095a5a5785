package gateway

import "time"

// Member is one team member on a project.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Project is the canonical client-side project record. Every capability group
// returns this one shape regardless of which envelope variant the server used.
type Project struct {
	ID                 uint       `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	OwnerID            uint       `json:"owner_id"`
	Status             string     `json:"status"`
	Submitted          bool       `json:"submitted"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	SubmissionDeadline time.Time  `json:"submission_deadline"`
	TeamMembers        []Member   `json:"teamMembers"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Program is a training program artifact directed at a project owner.
type Program struct {
	ID           uint      `json:"id"`
	ProjectID    uint      `json:"project_id"`
	PDFURL       string    `json:"pdfUrl"`
	Message      string    `json:"message"`
	TrainingDate string    `json:"trainingDate,omitempty"`
	Location     string    `json:"location,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Notification is a per-user workflow event.
type Notification struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
