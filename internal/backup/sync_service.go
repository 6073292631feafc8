package backup

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lifelogapp/lifelog-backend/internal/dto"
	"github.com/lifelogapp/lifelog-backend/internal/models"
)

// ErrUserNotFound is returned by restore/purge/photo paths when the external
// userId resolves to nothing. Sync never returns it: it creates the user.
var ErrUserNotFound = errors.New("User not found")

// SyncService reconciles client snapshots against storage. Records are
// deduplicated by natural key (never by client-supplied row ids) and written
// with ON CONFLICT upserts on the compound unique indexes, so a replayed or
// concurrent submission can never produce a second row.
type SyncService struct {
	db *gorm.DB
}

func NewSyncService(db *gorm.DB) *SyncService {
	return &SyncService{db: db}
}

// SyncSummary aggregates per-collection outcomes for one sync request.
type SyncSummary struct {
	Synced  map[string]int
	Errors  map[string]string
	Results map[string]*BatchResult
}

// SyncAll resolves (or lazily creates) the user, then reconciles every
// non-empty collection in the payload. A failing collection is recorded in
// Errors and does not stop the remaining collections.
func (s *SyncService) SyncAll(clientID string, payload *dto.SyncPayload) (*SyncSummary, error) {
	user, err := s.EnsureUser(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	summary := &SyncSummary{
		Synced:  make(map[string]int),
		Errors:  make(map[string]string),
		Results: make(map[string]*BatchResult),
	}

	collections := []struct {
		name      string
		records   []map[string]any
		reconcile func(uuid.UUID, []map[string]any) (*BatchResult, error)
	}{
		{"diaries", payload.Diaries, s.reconcileDiaries},
		{"checklists", payload.Checklists, s.reconcileChecklists},
		{"schedules", payload.Schedules, s.reconcileSchedules},
		{"appUsages", payload.AppUsages, s.reconcileAppUsages},
		{"emotions", payload.Emotions, s.reconcileEmotions},
		{"locations", payload.Locations, s.reconcileLocations},
		{"steps", payload.Steps, s.reconcileSteps},
		{"aiFeedbacks", payload.AiFeedbacks, s.reconcileAiFeedbacks},
	}

	for _, col := range collections {
		if len(col.records) == 0 {
			continue
		}
		res, err := col.reconcile(user.ID, col.records)
		if err != nil {
			slog.Error("collection sync failed", "collection", col.name, "user_id", user.ID, "error", err)
			summary.Errors[col.name] = err.Error()
			continue
		}
		summary.Synced[col.name] = res.Synced()
		summary.Results[col.name] = res
		if res.SkippedTotal() > 0 {
			slog.Warn("records skipped during sync",
				"collection", col.name, "user_id", user.ID, "skipped", res.Skipped)
		}
	}

	return summary, nil
}

// EnsureUser resolves the external client id to a user row, creating one on
// first contact. The internal primary key and the client id are distinct on
// purpose and must never be conflated.
func (s *SyncService) EnsureUser(clientID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("client_id = ?", clientID).
		Attrs(models.User{ID: uuid.New(), ClientID: clientID}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// upsert labels the outcome with a prior lookup, then writes with an
// ON CONFLICT DO UPDATE on the natural-key index. A concurrent insert between
// the lookup and the write can only mislabel created-vs-updated in the count;
// the write itself cannot duplicate the row.
func (s *SyncService) upsert(row any, exists bool, conflictCols []string, updateCols []string, res *BatchResult) {
	cols := make([]clause.Column, len(conflictCols))
	for i, c := range conflictCols {
		cols[i] = clause.Column{Name: c}
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   cols,
		DoUpdates: clause.AssignmentColumns(updateCols),
	}).Create(row).Error
	if err != nil {
		slog.Error("record upsert failed", "error", err)
		res.skip(SkipPersistence)
		return
	}
	if exists {
		res.Updated++
	} else {
		res.Created++
	}
}

func (s *SyncService) reconcileDiaries(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("diaries", raw)
		date, ok := asDate(rec["date"])
		if !ok {
			res.skip(SkipMissingField)
			continue
		}

		var existing models.Diary
		exists := s.db.Where("user_id = ? AND entry_date = ?", userID, date).
			First(&existing).Error == nil

		row := models.Diary{
			ID:        uuid.New(),
			UserID:    userID,
			EntryDate: date,
			Title:     stringField(rec, "title"),
			Content:   stringField(rec, "content"),
			CreatedAt: createdAtField(rec),
		}
		s.upsert(&row, exists,
			[]string{"user_id", "entry_date"},
			[]string{"title", "content", "updated_at"},
			res)
	}
	return res, nil
}

func (s *SyncService) reconcileChecklists(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("checklists", raw)
		text, textOK := asString(rec["text"])
		dueDate, dueOK := asDate(rec["dueDate"])
		if !textOK || !dueOK {
			res.skip(SkipMissingField)
			continue
		}

		var completed *time.Time
		if t, ok := asTime(rec["completedDate"]); ok {
			completed = &t
		}

		var existing models.Checklist
		exists := s.db.Where("user_id = ? AND text = ? AND due_date = ?", userID, text, dueDate).
			First(&existing).Error == nil

		row := models.Checklist{
			ID:            uuid.New(),
			UserID:        userID,
			Text:          text,
			DueDate:       dueDate,
			Subtext:       stringField(rec, "subtext"),
			IsChecked:     boolField(rec, "isChecked"),
			CompletedDate: completed,
			CreatedAt:     createdAtField(rec),
		}
		s.upsert(&row, exists,
			[]string{"user_id", "text", "due_date"},
			[]string{"subtext", "is_checked", "completed_date", "updated_at"},
			res)
	}
	return res, nil
}

func (s *SyncService) reconcileSchedules(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("schedules", raw)
		text, textOK := asString(rec["text"])
		selectedDate, dateOK := asDate(rec["selectedDate"])
		if !textOK || !dateOK {
			res.skip(SkipMissingField)
			continue
		}

		dayOfWeek, ok := asInt64(rec["dayOfWeek"])
		if !ok {
			// Older clients omit dayOfWeek; derive it from the date.
			t, _ := time.Parse("2006-01-02", selectedDate)
			dayOfWeek = int64(t.Weekday())
		}

		var existing models.Schedule
		exists := s.db.Where("user_id = ? AND text = ? AND selected_date = ? AND day_of_week = ?",
			userID, text, selectedDate, dayOfWeek).First(&existing).Error == nil

		row := models.Schedule{
			ID:           uuid.New(),
			UserID:       userID,
			Text:         text,
			SelectedDate: selectedDate,
			DayOfWeek:    int(dayOfWeek),
			SubText:      stringField(rec, "subText"),
			IsRoutine:    boolField(rec, "isRoutine"),
			StartTime:    stringField(rec, "startTime"),
			EndTime:      stringField(rec, "endTime"),
			ColorValue:   int64Field(rec, "colorValue"),
			HasAlarm:     boolField(rec, "hasAlarm"),
			AlarmOffset:  int(int64Field(rec, "alarmOffset")),
			CreatedAt:    createdAtField(rec),
		}
		s.upsert(&row, exists,
			[]string{"user_id", "text", "selected_date", "day_of_week"},
			[]string{"sub_text", "is_routine", "start_time", "end_time", "color_value", "has_alarm", "alarm_offset", "updated_at"},
			res)
	}
	return res, nil
}

func (s *SyncService) reconcileAppUsages(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("appUsages", raw)
		date, dateOK := asDate(rec["date"])
		pkg, pkgOK := asString(rec["packageName"])
		if !pkgOK {
			// packageName falls back to appName for clients that predate it.
			pkg, pkgOK = asString(rec["appName"])
		}
		if !dateOK || !pkgOK {
			res.skip(SkipMissingField)
			continue
		}

		var existing models.AppUsage
		exists := s.db.Where("user_id = ? AND usage_date = ? AND package_name = ?", userID, date, pkg).
			First(&existing).Error == nil

		row := models.AppUsage{
			ID:                uuid.New(),
			UserID:            userID,
			UsageDate:         date,
			PackageName:       pkg,
			AppName:           stringField(rec, "appName"),
			UsageTimeInMillis: int64Field(rec, "usageTimeInMillis"),
			AppIconPath:       stringField(rec, "appIconPath"),
			CreatedAt:         createdAtField(rec),
		}
		s.upsert(&row, exists,
			[]string{"user_id", "usage_date", "package_name"},
			[]string{"app_name", "usage_time_in_millis", "app_icon_path", "updated_at"},
			res)
	}
	return res, nil
}

func (s *SyncService) reconcileEmotions(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("emotions", raw)
		date, dateOK := asDate(rec["date"])
		hour, hourOK := asInt64(rec["hour"])
		if !dateOK || !hourOK {
			res.skip(SkipMissingField)
			continue
		}

		emotionType := stringField(rec, "emotionType")
		if emotionType == "" {
			emotionType = "neutral"
		}

		var existing models.EmotionRecord
		exists := s.db.Where("user_id = ? AND record_date = ? AND hour = ?", userID, date, hour).
			First(&existing).Error == nil

		row := models.EmotionRecord{
			ID:          uuid.New(),
			UserID:      userID,
			RecordDate:  date,
			Hour:        int(hour),
			EmotionType: emotionType,
			Notes:       stringField(rec, "notes"),
			CreatedAt:   createdAtField(rec),
		}
		s.upsert(&row, exists,
			[]string{"user_id", "record_date", "hour"},
			[]string{"emotion_type", "notes", "updated_at"},
			res)
	}
	return res, nil
}

// reconcileLocations is append-only. The unique index over the full value
// makes an exact duplicate resolve to the existing row (DO NOTHING); a record
// differing in any coordinate is a new row.
func (s *SyncService) reconcileLocations(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("locations", raw)
		recordedAt, tsOK := asTime(rec["timestamp"])
		lat, latOK := asFloat(rec["latitude"])
		lon, lonOK := asFloat(rec["longitude"])
		if !tsOK || !latOK || !lonOK {
			res.skip(SkipMissingField)
			continue
		}

		var existing models.LocationLog
		exists := s.db.Where("user_id = ? AND recorded_at = ? AND latitude = ? AND longitude = ?",
			userID, recordedAt, lat, lon).First(&existing).Error == nil

		if exists {
			res.Updated++
			continue
		}

		accuracy, _ := asFloat(rec["accuracy"])
		row := models.LocationLog{
			ID:         uuid.New(),
			UserID:     userID,
			RecordedAt: recordedAt,
			Latitude:   lat,
			Longitude:  lon,
			Accuracy:   accuracy,
			Address:    stringField(rec, "address"),
			CreatedAt:  createdAtField(rec),
		}
		err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			slog.Error("location insert failed", "user_id", userID, "error", err)
			res.skip(SkipPersistence)
			continue
		}
		res.Created++
	}
	return res, nil
}

func (s *SyncService) reconcileSteps(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("steps", raw)
		date, ok := asDate(rec["date"])
		if !ok {
			res.skip(SkipMissingField)
			continue
		}

		var existing models.StepRecord
		exists := s.db.Where("user_id = ? AND record_date = ?", userID, date).
			First(&existing).Error == nil

		row := models.StepRecord{
			ID:         uuid.New(),
			UserID:     userID,
			RecordDate: date,
			StepCount:  int64Field(rec, "stepCount"),
			Distance:   int64Field(rec, "distance"),
			Calories:   int64Field(rec, "calories"),
			CreatedAt:  createdAtField(rec),
		}
		s.upsert(&row, exists,
			[]string{"user_id", "record_date"},
			[]string{"step_count", "distance", "calories", "updated_at"},
			res)
	}
	return res, nil
}

func (s *SyncService) reconcileAiFeedbacks(userID uuid.UUID, records []map[string]any) (*BatchResult, error) {
	res := newBatchResult()
	for _, raw := range records {
		rec := normalizeRecord("aiFeedbacks", raw)
		date, ok := asDate(rec["date"])
		if !ok {
			res.skip(SkipMissingField)
			continue
		}

		var existing models.AiFeedback
		exists := s.db.Where("user_id = ? AND feedback_date = ?", userID, date).
			First(&existing).Error == nil

		row := models.AiFeedback{
			ID:           uuid.New(),
			UserID:       userID,
			FeedbackDate: date,
			FeedbackText: stringField(rec, "feedbackText"),
			CreatedAt:    createdAtField(rec),
		}
		s.upsert(&row, exists,
			[]string{"user_id", "feedback_date"},
			[]string{"feedback_text", "updated_at"},
			res)
	}
	return res, nil
}
