package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationLog is append-only: there is no update path. The unique index over
// (user, timestamp, coordinates) makes an exact duplicate submission resolve
// to the existing row instead of creating a second one.
type LocationLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_locations_exact" json:"user_id"`
	RecordedAt time.Time `gorm:"not null;uniqueIndex:idx_locations_exact" json:"recorded_at"`
	Latitude   float64   `gorm:"not null;uniqueIndex:idx_locations_exact" json:"latitude"`
	Longitude  float64   `gorm:"not null;uniqueIndex:idx_locations_exact" json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	Address    string    `gorm:"size:512" json:"address"`
	CreatedAt  time.Time `json:"created_at"`
}
