package models

import (
	"time"

	"gorm.io/datatypes"
)

// Program is a training program artifact a supervisor attaches to a project
// directed to one of the interfaces. At most one program per project; sending
// again replaces the previous artifact.
type Program struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ProjectID uint              `gorm:"uniqueIndex;not null" json:"project_id"`
	SenderID  uint              `gorm:"index;not null" json:"sender_id"`
	FileURL   string            `gorm:"size:512;not null" json:"pdf_url"`
	Message   string            `gorm:"type:text" json:"message"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"-"`
}
