package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelogapp/lifelog-backend/internal/dto"
	"github.com/lifelogapp/lifelog-backend/internal/models"
)

func TestSyncCreatesUserLazily(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	_, err := svc.SyncAll("device-123", &dto.SyncPayload{})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.Where("client_id = ?", "device-123").First(&user).Error)
	assert.NotEqual(t, user.ID.String(), user.ClientID, "internal id must stay distinct from the client id")

	// A second sync reuses the same row.
	_, err = svc.SyncAll("device-123", &dto.SyncPayload{})
	require.NoError(t, err)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDiarySyncIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	payload := &dto.SyncPayload{Diaries: []map[string]any{
		{"date": "2024-05-01", "title": "first", "content": "hello"},
	}}

	sum, err := svc.SyncAll("u1", payload)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Synced["diaries"])
	assert.Equal(t, 1, sum.Results["diaries"].Created)

	payload.Diaries[0]["title"] = "second"
	sum, err = svc.SyncAll("u1", payload)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Synced["diaries"])
	assert.Equal(t, 1, sum.Results["diaries"].Updated)

	var rows []models.Diary
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].Title)
	assert.Equal(t, "2024-05-01", rows[0].EntryDate)
}

func TestChecklistLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	rec := map[string]any{"text": "buy milk", "dueDate": "2024-05-02", "isChecked": false}
	_, err := svc.SyncAll("u1", &dto.SyncPayload{Checklists: []map[string]any{rec}})
	require.NoError(t, err)

	rec["isChecked"] = true
	_, err = svc.SyncAll("u1", &dto.SyncPayload{Checklists: []map[string]any{rec}})
	require.NoError(t, err)

	var rows []models.Checklist
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsChecked)
}

func TestScheduleAlarmOffsetAliases(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	aliases := []map[string]any{
		{"text": "gym", "selected_date": "2024-05-03", "day_of_week": float64(5), "alarm_offset": float64(10)},
		{"text": "gym", "selectedDate": "2024-05-03", "dayOfWeek": float64(5), "alarm_offset_in_minutes": float64(20)},
		{"text": "gym", "selectedDate": "2024-05-03", "dayOfWeek": float64(5), "alarmOffsetInMinutes": float64(30)},
	}

	for i, rec := range aliases {
		_, err := svc.SyncAll("u1", &dto.SyncPayload{Schedules: []map[string]any{rec}})
		require.NoError(t, err)

		var rows []models.Schedule
		require.NoError(t, db.Find(&rows).Error)
		require.Len(t, rows, 1, "all alias spellings must hit the same natural key")
		assert.Equal(t, (i+1)*10, rows[0].AlarmOffset)
	}
}

func TestScheduleDayOfWeekDerivedFromDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	// 2024-05-03 is a Friday.
	_, err := svc.SyncAll("u1", &dto.SyncPayload{Schedules: []map[string]any{
		{"text": "standup", "selectedDate": "2024-05-03"},
	}})
	require.NoError(t, err)

	var row models.Schedule
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, 5, row.DayOfWeek)
}

func TestAppUsagePackageNameFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	sum, err := svc.SyncAll("u1", &dto.SyncPayload{AppUsages: []map[string]any{
		{"date": "2024-05-01", "app_name": "Maps", "usage_time_in_millis": "4200000000"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Synced["appUsages"])

	var row models.AppUsage
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "Maps", row.PackageName)
	assert.Equal(t, "Maps", row.AppName)
	assert.Equal(t, int64(4200000000), row.UsageTimeInMillis)
}

func TestEmotionDefaultsToNeutral(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	_, err := svc.SyncAll("u1", &dto.SyncPayload{Emotions: []map[string]any{
		{"date": "2024-05-01", "hour": float64(14)},
	}})
	require.NoError(t, err)

	var row models.EmotionRecord
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "neutral", row.EmotionType)
}

func TestMissingNaturalKeyIsSkippedNotFatal(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	sum, err := svc.SyncAll("u1", &dto.SyncPayload{Diaries: []map[string]any{
		{"title": "no date here"},
		{"date": "2024-05-01", "title": "valid"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Synced["diaries"])
	assert.Equal(t, 1, sum.Results["diaries"].Skipped[SkipMissingField])

	var count int64
	db.Model(&models.Diary{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLocationExactDuplicateReturnsExistingRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	rec := map[string]any{"timestamp": "2024-05-01T08:00:00Z", "lat": 37.5665, "lon": 126.978}
	for i := 0; i < 2; i++ {
		sum, err := svc.SyncAll("u1", &dto.SyncPayload{Locations: []map[string]any{rec}})
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Synced["locations"], "duplicate submissions still count as processed")
	}

	var count int64
	db.Model(&models.LocationLog{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// A different coordinate at the same timestamp is a new row.
	rec["lat"] = 37.5700
	_, err := svc.SyncAll("u1", &dto.SyncPayload{Locations: []map[string]any{rec}})
	require.NoError(t, err)
	db.Model(&models.LocationLog{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestSyncScopedToOwningUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db)

	payload := &dto.SyncPayload{Diaries: []map[string]any{
		{"date": "2024-05-01", "title": "mine"},
	}}
	_, err := svc.SyncAll("alice", payload)
	require.NoError(t, err)
	_, err = svc.SyncAll("bob", payload)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Diary{}).Count(&count)
	assert.EqualValues(t, 2, count, "same natural key under different users must not collide")
}
