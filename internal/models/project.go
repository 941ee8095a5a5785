package models

import (
	"time"

	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// Project is a student-registered work item tracked through the status
// workflow from registration to interface direction or rejection.
type Project struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	Description        string     `gorm:"type:text" json:"description"`
	OwnerID            uint       `gorm:"index;not null" json:"owner_id"`
	Owner              User       `gorm:"foreignKey:OwnerID" json:"-"`
	Status             string     `gorm:"size:64;not null;default:Sent" json:"status"`
	Submitted          bool       `gorm:"not null;default:false" json:"submitted"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	SubmissionDeadline time.Time  `gorm:"not null" json:"submission_deadline"`
	Members            []Member   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"teamMembers"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"-"`
}

// EditableByOwner reports whether the owning student may still modify the
// project at the given instant.
func (p Project) EditableByOwner(now time.Time) bool {
	return workflow.OwnerCanEdit(p.Submitted, p.SubmissionDeadline, now)
}

// SubmitOpen reports whether the submission window is still open.
func (p Project) SubmitOpen(now time.Time) bool {
	return workflow.OwnerCanSubmit(p.SubmissionDeadline, now)
}

// Member is a team member listed on a project. Members have no lifecycle of
// their own; Position preserves insertion order for display.
type Member struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProjectID uint   `gorm:"index;not null" json:"-"`
	MemberID  string `gorm:"size:64;not null" json:"id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Email     string `gorm:"size:255" json:"email"`
	Phone     string `gorm:"size:64" json:"phone"`
	Position  int    `gorm:"not null;default:0" json:"-"`
}
