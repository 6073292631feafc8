package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns every synced record. ClientID is the identifier mobile clients
// put in the URL path; it is never the same thing as the internal primary key.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID     string         `gorm:"size:128;not null;uniqueIndex" json:"client_id"`
	Email        string         `gorm:"size:255;index" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	AuthProvider string         `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
