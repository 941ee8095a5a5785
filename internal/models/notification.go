package models

import "time"

// Notification kinds emitted by the workflow.
const (
	NotificationProgramSent   = "program_sent"
	NotificationStatusChanged = "status_changed"
)

// Notification records a workflow event addressed to one user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"size:64;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
