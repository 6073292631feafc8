package logging

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/lifelogapp/lifelog-backend/internal/models"
)

const logRetention = 30 * 24 * time.Hour

// StartCleanup runs a daily goroutine that trims system_logs past the
// retention window. Synced user data is never touched here; only the
// backend's own log sink is bounded.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-logRetention)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("log cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("log cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
