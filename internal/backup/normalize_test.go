package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecordAliases(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		in     map[string]any
		key    string
		want   any
	}{
		{
			name:   "snake package name",
			entity: "appUsages",
			in:     map[string]any{"package_name": "com.example.app"},
			key:    "packageName",
			want:   "com.example.app",
		},
		{
			name:   "legacy usageTime",
			entity: "appUsages",
			in:     map[string]any{"usageTime": "12345"},
			key:    "usageTimeInMillis",
			want:   "12345",
		},
		{
			name:   "alarm offset snake",
			entity: "schedules",
			in:     map[string]any{"alarm_offset": float64(10)},
			key:    "alarmOffset",
			want:   float64(10),
		},
		{
			name:   "alarm offset verbose snake",
			entity: "schedules",
			in:     map[string]any{"alarm_offset_in_minutes": float64(15)},
			key:    "alarmOffset",
			want:   float64(15),
		},
		{
			name:   "alarm offset verbose camel",
			entity: "schedules",
			in:     map[string]any{"alarmOffsetInMinutes": float64(30)},
			key:    "alarmOffset",
			want:   float64(30),
		},
		{
			name:   "emotion type snake",
			entity: "emotions",
			in:     map[string]any{"emotion_type": "happy"},
			key:    "emotionType",
			want:   "happy",
		},
		{
			name:   "location lat shorthand",
			entity: "locations",
			in:     map[string]any{"lat": 37.5},
			key:    "latitude",
			want:   37.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := normalizeRecord(tt.entity, tt.in)
			assert.Equal(t, tt.want, out[tt.key])
		})
	}
}

func TestNormalizeCanonicalWins(t *testing.T) {
	out := normalizeRecord("appUsages", map[string]any{
		"packageName":  "canonical.pkg",
		"package_name": "legacy.pkg",
	})
	assert.Equal(t, "canonical.pkg", out["packageName"])
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"package_name": "com.example"}
	_ = normalizeRecord("appUsages", in)
	_, ok := in["packageName"]
	assert.False(t, ok)
}

func TestAsDateFormats(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"plain date", "2024-03-01", "2024-03-01", true},
		{"rfc3339", "2024-03-01T10:30:00Z", "2024-03-01", true},
		{"datetime", "2024-03-01 10:30:00", "2024-03-01", true},
		{"slashes", "2024/03/01", "2024-03-01", true},
		{"epoch millis", float64(1709287200000), "2024-03-01", true},
		{"rfc3339 positive offset", "2024-03-01T01:00:00+09:00", "2024-02-29", true},
		{"rfc3339 negative offset", "2024-03-01T23:00:00-05:00", "2024-03-02", true},
		{"garbage", "yesterday", "", false},
		{"missing", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := asDate(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The same instant must land on the same calendar day whether the client
// sent it as an offset timestamp or as epoch milliseconds.
func TestAsDateSameInstantSameDay(t *testing.T) {
	fromString, ok := asDate("2024-03-01T01:00:00+09:00")
	require.True(t, ok)
	fromMillis, ok := asDate(float64(1709222400000)) // 2024-02-29T16:00:00Z
	require.True(t, ok)
	assert.Equal(t, fromMillis, fromString)
}

func TestAsInt64Encodings(t *testing.T) {
	for _, v := range []any{float64(4200000000), "4200000000", int64(4200000000)} {
		got, ok := asInt64(v)
		require.True(t, ok)
		assert.Equal(t, int64(4200000000), got)
	}

	_, ok := asInt64("not a number")
	assert.False(t, ok)
}
