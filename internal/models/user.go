package models

import (
	"time"

	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

// User represents a registered account: a student team lead, a supervisor or
// an administrator. Roles are stored in canonical form.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Firstname    string    `gorm:"size:255;not null" json:"firstname"`
	Lastname     string    `gorm:"size:255" json:"lastname"`
	Phone        string    `gorm:"size:64" json:"phone"`
	Role         string    `gorm:"size:32;not null;default:student" json:"role"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// CanonicalRole returns the normalized role, defaulting to student when the
// stored value is unrecognized.
func (u User) CanonicalRole() workflow.Role {
	if role, ok := workflow.ParseRole(u.Role); ok {
		return role
	}
	return workflow.RoleStudent
}
