package models

import (
	"time"

	"github.com/google/uuid"
)

// EmotionRecord captures one mood sample per hour of a day.
type EmotionRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_emotions_user_date_hour" json:"user_id"`
	RecordDate  string    `gorm:"size:10;not null;uniqueIndex:idx_emotions_user_date_hour" json:"record_date"`
	Hour        int       `gorm:"not null;uniqueIndex:idx_emotions_user_date_hour" json:"hour"`
	EmotionType string    `gorm:"size:50;default:'neutral'" json:"emotion_type"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
