package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo is the legacy photo table kept for older client versions. The sync,
// restore and purge paths never touch it; the filename list on
// Diary.PhotoPaths is the representation actually used. Do not "fix" this by
// wiring the table into sync without a client migration plan.
type Photo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DiaryDate string    `gorm:"size:10;index" json:"diary_date"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}
