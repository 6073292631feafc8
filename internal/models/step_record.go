package models

import (
	"time"

	"github.com/google/uuid"
)

// StepRecord is one pedometer summary per day. The numeric fields come from
// clients as 64-bit values and go back out as decimal strings.
type StepRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_steps_user_date" json:"user_id"`
	RecordDate string    `gorm:"size:10;not null;uniqueIndex:idx_steps_user_date" json:"record_date"`
	StepCount  int64     `gorm:"default:0" json:"step_count"`
	Distance   int64     `gorm:"default:0" json:"distance"`
	Calories   int64     `gorm:"default:0" json:"calories"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
