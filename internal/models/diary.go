package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Diary is one journal entry per calendar day. EntryDate is stored as a
// normalized YYYY-MM-DD string because clients submit dates in several formats.
// PhotoPaths is an ordered JSON array of filenames under the photo upload dir;
// it behaves as a set (no duplicate filenames, insertion order preserved).
type Diary struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_diaries_user_date" json:"user_id"`
	EntryDate  string         `gorm:"size:10;not null;uniqueIndex:idx_diaries_user_date" json:"entry_date"`
	Title      string         `gorm:"size:255" json:"title"`
	Content    string         `gorm:"type:text" json:"content"`
	PhotoPaths datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"photo_paths"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
