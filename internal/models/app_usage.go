package models

import (
	"time"

	"github.com/google/uuid"
)

// AppUsage records per-app screen time for one day. UsageTimeInMillis can
// exceed int32 range, so it is serialized to clients as a decimal string.
type AppUsage struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_app_usages_user_date_pkg" json:"user_id"`
	UsageDate         string    `gorm:"size:10;not null;uniqueIndex:idx_app_usages_user_date_pkg" json:"usage_date"`
	PackageName       string    `gorm:"size:255;not null;uniqueIndex:idx_app_usages_user_date_pkg" json:"package_name"`
	AppName           string    `gorm:"size:255" json:"app_name"`
	UsageTimeInMillis int64     `gorm:"default:0" json:"usage_time_in_millis"`
	AppIconPath       string    `gorm:"size:512" json:"app_icon_path"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
