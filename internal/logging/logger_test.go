package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			assert.Equal(t, tt.want, LevelFromEnv())
		})
	}
}

// recordingSink captures records above its level and optionally fails.
type recordingSink struct {
	level   slog.Level
	records []slog.Record
	err     error
}

func (s *recordingSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.level
}

func (s *recordingSink) Handle(_ context.Context, record slog.Record) error {
	s.records = append(s.records, record)
	return s.err
}

func (s *recordingSink) WithAttrs([]slog.Attr) slog.Handler { return s }
func (s *recordingSink) WithGroup(string) slog.Handler      { return s }

func TestMultiHandlerRespectsPerSinkLevels(t *testing.T) {
	console := &recordingSink{level: slog.LevelInfo}
	dbSink := &recordingSink{level: slog.LevelError}
	logger := slog.New(NewMultiHandler(console, dbSink))

	logger.Info("routine")
	logger.Error("broken")

	require.Len(t, console.records, 2)
	require.Len(t, dbSink.records, 1)
	assert.Equal(t, "broken", dbSink.records[0].Message)
}

func TestMultiHandlerFailingSinkDoesNotStarveOthers(t *testing.T) {
	failing := &recordingSink{level: slog.LevelInfo, err: errors.New("sink down")}
	healthy := &recordingSink{level: slog.LevelInfo}
	h := NewMultiHandler(failing, healthy)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	err := h.Handle(context.Background(), record)

	assert.Error(t, err)
	assert.Len(t, healthy.records, 1, "healthy sink must still receive the record")
}

func TestMultiHandlerEnabled(t *testing.T) {
	h := NewMultiHandler(&recordingSink{level: slog.LevelError})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
