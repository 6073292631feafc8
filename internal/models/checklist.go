package models

import (
	"time"

	"github.com/google/uuid"
)

// Checklist items are deduplicated by (user, text, due date).
type Checklist struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_checklists_user_text_due" json:"user_id"`
	Text          string     `gorm:"size:512;not null;uniqueIndex:idx_checklists_user_text_due" json:"text"`
	DueDate       string     `gorm:"size:10;not null;uniqueIndex:idx_checklists_user_text_due" json:"due_date"`
	Subtext       string     `gorm:"size:512" json:"subtext"`
	IsChecked     bool       `gorm:"default:false" json:"is_checked"`
	CompletedDate *time.Time `json:"completed_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
