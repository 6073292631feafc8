package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/lifelogapp/lifelog-backend/internal/models"
)

// RestoreService reads a user's full dataset back out in client-safe form:
// 64-bit counters as decimal strings (several clients lose precision past
// 2^53), times as RFC 3339, and legacy snake_case spellings emitted next to
// the canonical camelCase ones.
type RestoreService struct {
	db *gorm.DB
}

func NewRestoreService(db *gorm.DB) *RestoreService {
	return &RestoreService{db: db}
}

// RestoreResult holds the serialized collections plus per-type counts.
// Statistics always equals len(Data[type]) so clients can verify a restore
// against their own sync bookkeeping.
type RestoreResult struct {
	Data       map[string][]map[string]any
	Statistics map[string]int
}

// RestoreAll fetches the eight reconciled collections concurrently and
// serializes them. A missing user is the caller's signal, not a 404.
func (s *RestoreService) RestoreAll(clientID string) (*RestoreResult, error) {
	var user models.User
	if err := s.db.Where("client_id = ?", clientID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var (
		diaries     []models.Diary
		checklists  []models.Checklist
		schedules   []models.Schedule
		appUsages   []models.AppUsage
		emotions    []models.EmotionRecord
		locations   []models.LocationLog
		steps       []models.StepRecord
		aiFeedbacks []models.AiFeedback
	)

	g := new(errgroup.Group)
	fetch := func(dest any) func() error {
		return func() error {
			return s.db.Where("user_id = ?", user.ID).Find(dest).Error
		}
	}
	g.Go(fetch(&diaries))
	g.Go(fetch(&checklists))
	g.Go(fetch(&schedules))
	g.Go(fetch(&appUsages))
	g.Go(fetch(&emotions))
	g.Go(fetch(&locations))
	g.Go(fetch(&steps))
	g.Go(fetch(&aiFeedbacks))
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch user data: %w", err)
	}

	data := map[string][]map[string]any{
		"diaries":     mapSlice(diaries, diaryDTO),
		"checklists":  mapSlice(checklists, checklistDTO),
		"schedules":   mapSlice(schedules, scheduleDTO),
		"appUsages":   mapSlice(appUsages, appUsageDTO),
		"emotions":    mapSlice(emotions, emotionDTO),
		"locations":   mapSlice(locations, locationDTO),
		"steps":       mapSlice(steps, stepDTO),
		"aiFeedbacks": mapSlice(aiFeedbacks, aiFeedbackDTO),
	}

	for entity, rows := range data {
		for _, row := range rows {
			emitLegacyAliases(entity, row)
		}
	}

	sanitized, err := sanitize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize restore data: %w", err)
	}

	stats := make(map[string]int, len(sanitized))
	for name, rows := range sanitized {
		stats[name] = len(rows)
	}

	return &RestoreResult{Data: sanitized, Statistics: stats}, nil
}

// emitLegacyAliases copies each canonical value onto the snake_case
// spellings older clients still read. The alias tables in normalize.go are
// the single source of truth, so the spellings sync accepts and the ones
// restore emits cannot drift apart.
func emitLegacyAliases(entity string, row map[string]any) {
	for _, fa := range entityAliases[entity] {
		if !strings.Contains(fa.alias, "_") {
			continue
		}
		if v, ok := row[fa.canonical]; ok {
			row[fa.alias] = v
		}
	}
}

func mapSlice[T any](rows []T, dto func(*T) map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		out = append(out, dto(&rows[i]))
	}
	return out
}

// sanitize round-trips the payload through encoding/json so only plain JSON
// types can reach the wire, whatever the DTO builders put in.
func sanitize(data map[string][]map[string]any) (map[string][]map[string]any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out map[string][]map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func diaryDTO(d *models.Diary) map[string]any {
	return map[string]any{
		"date":       d.EntryDate,
		"title":      d.Title,
		"content":    d.Content,
		"photoPaths": decodePhotoPaths(d.PhotoPaths),
		"createdAt":  isoTime(d.CreatedAt),
		"updatedAt":  isoTime(d.UpdatedAt),
	}
}

func checklistDTO(c *models.Checklist) map[string]any {
	dto := map[string]any{
		"text":          c.Text,
		"dueDate":       c.DueDate,
		"subtext":       c.Subtext,
		"isChecked":     c.IsChecked,
		"completedDate": nil,
		"createdAt":     isoTime(c.CreatedAt),
		"updatedAt":     isoTime(c.UpdatedAt),
	}
	if c.CompletedDate != nil {
		dto["completedDate"] = isoTime(*c.CompletedDate)
	}
	return dto
}

func scheduleDTO(s *models.Schedule) map[string]any {
	return map[string]any{
		"text":         s.Text,
		"selectedDate": s.SelectedDate,
		"dayOfWeek":    s.DayOfWeek,
		"subText":      s.SubText,
		"isRoutine":    s.IsRoutine,
		"startTime":    s.StartTime,
		"endTime":      s.EndTime,
		"colorValue":   s.ColorValue,
		"hasAlarm":     s.HasAlarm,
		"alarmOffset":  s.AlarmOffset,
		"createdAt":    isoTime(s.CreatedAt),
		"updatedAt":    isoTime(s.UpdatedAt),
	}
}

func appUsageDTO(a *models.AppUsage) map[string]any {
	return map[string]any{
		"date":              a.UsageDate,
		"packageName":       a.PackageName,
		"appName":           a.AppName,
		"usageTimeInMillis": strconv.FormatInt(a.UsageTimeInMillis, 10),
		"appIconPath":       a.AppIconPath,
		"createdAt":         isoTime(a.CreatedAt),
		"updatedAt":         isoTime(a.UpdatedAt),
	}
}

func emotionDTO(e *models.EmotionRecord) map[string]any {
	return map[string]any{
		"date":        e.RecordDate,
		"hour":        e.Hour,
		"emotionType": e.EmotionType,
		"notes":       e.Notes,
		"createdAt":   isoTime(e.CreatedAt),
		"updatedAt":   isoTime(e.UpdatedAt),
	}
}

func locationDTO(l *models.LocationLog) map[string]any {
	return map[string]any{
		"timestamp": isoTime(l.RecordedAt),
		"latitude":  l.Latitude,
		"longitude": l.Longitude,
		"accuracy":  l.Accuracy,
		"address":   l.Address,
		"createdAt": isoTime(l.CreatedAt),
	}
}

func stepDTO(s *models.StepRecord) map[string]any {
	return map[string]any{
		"date":      s.RecordDate,
		"stepCount": strconv.FormatInt(s.StepCount, 10),
		"distance":  strconv.FormatInt(s.Distance, 10),
		"calories":  strconv.FormatInt(s.Calories, 10),
		"createdAt": isoTime(s.CreatedAt),
		"updatedAt": isoTime(s.UpdatedAt),
	}
}

func aiFeedbackDTO(f *models.AiFeedback) map[string]any {
	return map[string]any{
		"date":         f.FeedbackDate,
		"feedbackText": f.FeedbackText,
		"createdAt":    isoTime(f.CreatedAt),
		"updatedAt":    isoTime(f.UpdatedAt),
	}
}
