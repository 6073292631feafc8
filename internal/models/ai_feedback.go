package models

import (
	"time"

	"github.com/google/uuid"
)

// AiFeedback stores the daily AI-generated summary text for a user.
type AiFeedback struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ai_feedbacks_user_date" json:"user_id"`
	FeedbackDate string    `gorm:"size:10;not null;uniqueIndex:idx_ai_feedbacks_user_date" json:"feedback_date"`
	FeedbackText string    `gorm:"type:text" json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
