package backup

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lifelogapp/lifelog-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache in-memory database survives GORM's connection
	// pooling; a plain :memory: DSN would give every pooled connection its
	// own empty database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Diary{},
		&models.Checklist{},
		&models.Schedule{},
		&models.AppUsage{},
		&models.EmotionRecord{},
		&models.LocationLog{},
		&models.StepRecord{},
		&models.AiFeedback{},
		&models.Photo{},
	))
	return db
}

func mustUser(t *testing.T, db *gorm.DB, clientID string) *models.User {
	t.Helper()
	user, err := NewSyncService(db).EnsureUser(clientID)
	require.NoError(t, err)
	return user
}
