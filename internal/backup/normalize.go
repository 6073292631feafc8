package backup

import (
	"strconv"
	"strings"
	"time"
)

// fieldAlias maps one alternate client spelling onto its canonical field.
// Aliases are declared in priority order: when several spellings of the same
// field are present, the first listed alias wins (after the canonical name
// itself, which always wins).
type fieldAlias struct {
	alias     string
	canonical string
}

// commonAliases apply to every entity.
var commonAliases = []fieldAlias{
	{"created_at", "createdAt"},
	{"updated_at", "updatedAt"},
}

// entityAliases is the per-entity alias table. Normalization must run before
// natural-key construction because key fields themselves can be aliased
// (packageName, selectedDate, dueDate, ...). Restore reads these tables too:
// every snake_case alias listed here is emitted next to its canonical field
// (see emitLegacyAliases), so new spellings belong here, not in the DTOs.
var entityAliases = map[string][]fieldAlias{
	"diaries": {
		{"photo_paths", "photoPaths"},
	},
	"checklists": {
		{"due_date", "dueDate"},
		{"is_checked", "isChecked"},
		{"completed_date", "completedDate"},
		{"sub_text", "subtext"},
		{"subText", "subtext"},
	},
	"schedules": {
		{"selected_date", "selectedDate"},
		{"day_of_week", "dayOfWeek"},
		{"sub_text", "subText"},
		{"is_routine", "isRoutine"},
		{"start_time", "startTime"},
		{"end_time", "endTime"},
		{"color_value", "colorValue"},
		{"has_alarm", "hasAlarm"},
		{"alarm_offset", "alarmOffset"},
		{"alarm_offset_in_minutes", "alarmOffset"},
		{"alarmOffsetInMinutes", "alarmOffset"},
	},
	"appUsages": {
		{"package_name", "packageName"},
		{"app_name", "appName"},
		{"usage_time_in_millis", "usageTimeInMillis"},
		{"usageTime", "usageTimeInMillis"},
		{"app_icon_path", "appIconPath"},
	},
	"emotions": {
		{"emotion_type", "emotionType"},
	},
	"locations": {
		{"lat", "latitude"},
		{"lon", "longitude"},
		{"lng", "longitude"},
	},
	"steps": {
		{"step_count", "stepCount"},
	},
	"aiFeedbacks": {
		{"feedback_text", "feedbackText"},
	},
}

// normalizeRecord returns a copy of rec with every known alias folded into
// its canonical field. Canonical spellings present in the input always win;
// alias values never overwrite them.
func normalizeRecord(entity string, rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, fa := range append(entityAliases[entity], commonAliases...) {
		if _, ok := out[fa.canonical]; ok {
			continue
		}
		if v, ok := out[fa.alias]; ok {
			out[fa.canonical] = v
		}
	}
	return out
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func stringField(rec map[string]any, key string) string {
	s, _ := asString(rec[key])
	return s
}

// asInt64 tolerates the numeric encodings clients actually send: JSON
// numbers (float64 after unmarshal), strings, and native ints.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, true
	case string:
		switch strings.ToLower(b) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

func boolField(rec map[string]any, key string) bool {
	b, _ := asBool(rec[key])
	return b
}

func int64Field(rec map[string]any, key string) int64 {
	n, _ := asInt64(rec[key])
	return n
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// asDate normalizes a client date value to a YYYY-MM-DD string. Accepts the
// date layouts seen across client versions plus epoch milliseconds. The
// calendar day is always taken in UTC so the same instant maps to the same
// day regardless of how the client encoded it.
func asDate(v any) (string, bool) {
	switch d := v.(type) {
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format("2006-01-02"), true
			}
		}
		return "", false
	case float64:
		return time.UnixMilli(int64(d)).UTC().Format("2006-01-02"), true
	case int64:
		return time.UnixMilli(d).UTC().Format("2006-01-02"), true
	}
	return "", false
}

// asTime parses a client timestamp: RFC3339 strings or epoch millis.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case int64:
		return time.UnixMilli(t).UTC(), true
	}
	return time.Time{}, false
}

// createdAtField returns the payload's createdAt when present so a restore
// keeps the original creation time; the zero value lets GORM stamp now().
func createdAtField(rec map[string]any) time.Time {
	if t, ok := asTime(rec["createdAt"]); ok {
		return t
	}
	return time.Time{}
}
