package backup

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/lifelogapp/lifelog-backend/internal/models"
)

// PurgeService deletes all reconciled data for one user in a single
// transaction. The legacy Photo table and the files under the photo upload
// directory are deliberately left alone; only the eight synced entity types
// are covered.
type PurgeService struct {
	db *gorm.DB
}

func NewPurgeService(db *gorm.DB) *PurgeService {
	return &PurgeService{db: db}
}

// ClearAll removes every synced row owned by the user. The delete is
// all-or-nothing: if any table fails, the transaction rolls back and no
// partial deletion is visible.
func (s *PurgeService) ClearAll(clientID string) (map[string]int64, error) {
	var user models.User
	if err := s.db.Where("client_id = ?", clientID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tables := []struct {
		name  string
		model any
	}{
		{"diaries", &models.Diary{}},
		{"checklists", &models.Checklist{}},
		{"schedules", &models.Schedule{}},
		{"appUsages", &models.AppUsage{}},
		{"emotions", &models.EmotionRecord{}},
		{"locations", &models.LocationLog{}},
		{"steps", &models.StepRecord{}},
		{"aiFeedbacks", &models.AiFeedback{}},
	}

	counts := make(map[string]int64, len(tables))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			result := tx.Where("user_id = ?", user.ID).Delete(t.model)
			if result.Error != nil {
				return result.Error
			}
			counts[t.name] = result.RowsAffected
		}
		return nil
	})
	if err != nil {
		slog.Error("purge transaction failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("user data purged", "user_id", user.ID, "counts", counts)
	return counts, nil
}
