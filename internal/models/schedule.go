package models

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a calendar event. The natural key includes day_of_week because
// routine events repeat the same text and date slot across weekdays.
type Schedule struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedules_natural_key" json:"user_id"`
	Text         string    `gorm:"size:512;not null;uniqueIndex:idx_schedules_natural_key" json:"text"`
	SelectedDate string    `gorm:"size:10;not null;uniqueIndex:idx_schedules_natural_key" json:"selected_date"`
	DayOfWeek    int       `gorm:"not null;uniqueIndex:idx_schedules_natural_key" json:"day_of_week"`
	SubText      string    `gorm:"size:512" json:"sub_text"`
	IsRoutine    bool      `gorm:"default:false" json:"is_routine"`
	StartTime    string    `gorm:"size:8" json:"start_time"`
	EndTime      string    `gorm:"size:8" json:"end_time"`
	ColorValue   int64     `json:"color_value"`
	HasAlarm     bool      `gorm:"default:false" json:"has_alarm"`
	AlarmOffset  int       `gorm:"default:0" json:"alarm_offset"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
